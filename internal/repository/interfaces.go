package repository

import (
	"context"

	"go.uber.org/zap"

	"github.com/jafarshop/storefront-embed/pkg/errors"
)

// ClientStorageRepository defines server-side client storage access, scoped per browser session.
// Get returns *errors.ErrNotFound for an absent key.
type ClientStorageRepository interface {
	Get(ctx context.Context, sessionID, key string) (string, error)
	Put(ctx context.Context, sessionID, key, value string) error
}

// Repositories holds all repositories
type Repositories struct {
	ClientStorage ClientStorageRepository
}

// SessionStorage adapts a ClientStorageRepository to the cart store's local-storage
// contract for one session
type SessionStorage struct {
	repo      ClientStorageRepository
	sessionID string
	logger    *zap.Logger
}

// NewSessionStorage binds repo to a session
func NewSessionStorage(repo ClientStorageRepository, sessionID string, logger *zap.Logger) *SessionStorage {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionStorage{repo: repo, sessionID: sessionID, logger: logger}
}

// GetItem returns "" when the key was never written
func (s *SessionStorage) GetItem(ctx context.Context, key string) (string, error) {
	value, err := s.repo.Get(ctx, s.sessionID, key)
	if errors.IsNotFound(err) {
		return "", nil
	}
	if err != nil {
		s.logger.Error("Failed to read client storage", zap.String("session_id", s.sessionID), zap.String("key", key), zap.Error(err))
		return "", err
	}
	return value, nil
}

func (s *SessionStorage) SetItem(ctx context.Context, key, value string) error {
	return s.repo.Put(ctx, s.sessionID, key, value)
}
