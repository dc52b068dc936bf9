package postgres

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/jafarshop/storefront-embed/internal/repository"
	"github.com/jafarshop/storefront-embed/pkg/errors"
)

type clientStorageRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewClientStorageRepository creates a new client storage repository
func NewClientStorageRepository(db *sql.DB, logger *zap.Logger) repository.ClientStorageRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &clientStorageRepository{
		db:     db,
		logger: logger,
	}
}

func (r *clientStorageRepository) Get(ctx context.Context, sessionID, key string) (string, error) {
	query := `
		SELECT value
		FROM client_storage
		WHERE session_id = $1 AND key = $2
	`

	var value string
	err := r.db.QueryRowContext(ctx, query, sessionID, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", &errors.ErrNotFound{Resource: "client_storage", ID: key}
	}
	if err != nil {
		r.logger.Error("Failed to get client storage value", zap.String("key", key), zap.Error(err))
		return "", err
	}

	return value, nil
}

func (r *clientStorageRepository) Put(ctx context.Context, sessionID, key, value string) error {
	query := `
		INSERT INTO client_storage (session_id, key, value, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (session_id, key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = NOW()
	`

	_, err := r.db.ExecContext(ctx, query, sessionID, key, value)
	if err != nil {
		r.logger.Error("Failed to put client storage value", zap.String("key", key), zap.Error(err))
		return err
	}

	return nil
}
