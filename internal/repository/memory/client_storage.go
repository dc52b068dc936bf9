package memory

import (
	"context"
	"sync"

	"github.com/jafarshop/storefront-embed/internal/repository"
	"github.com/jafarshop/storefront-embed/pkg/errors"
)

type clientStorageRepository struct {
	mu    sync.RWMutex
	items map[string]map[string]string
}

// NewClientStorageRepository creates a process-local client storage repository.
// Values are lost on restart.
func NewClientStorageRepository() repository.ClientStorageRepository {
	return &clientStorageRepository{items: make(map[string]map[string]string)}
}

func (r *clientStorageRepository) Get(ctx context.Context, sessionID, key string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	value, ok := r.items[sessionID][key]
	if !ok {
		return "", &errors.ErrNotFound{Resource: "client_storage", ID: key}
	}
	return value, nil
}

func (r *clientStorageRepository) Put(ctx context.Context, sessionID, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.items[sessionID]
	if !ok {
		session = make(map[string]string)
		r.items[sessionID] = session
	}
	session[key] = value
	return nil
}
