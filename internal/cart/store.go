package cart

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/jafarshop/storefront-embed/internal/domain"
	"github.com/jafarshop/storefront-embed/pkg/errors"
)

// CartIDKey is the durable storage key holding the cart identifier
const CartIDKey = "sf_cart_id"

// API is the part of the storefront client the store drives
type API interface {
	CreateCart(ctx context.Context) (*domain.Cart, error)
	CartByID(ctx context.Context, cartID string) (*domain.Cart, error)
	AddLine(ctx context.Context, cartID, merchandiseID string, quantity int) (*domain.Cart, error)
	UpdateLine(ctx context.Context, cartID, lineID string, quantity int) (*domain.Cart, error)
	RemoveLine(ctx context.Context, cartID, lineID string) (*domain.Cart, error)
}

// Storage is durable client storage. GetItem returns "" for an absent key.
type Storage interface {
	GetItem(ctx context.Context, key string) (string, error)
	SetItem(ctx context.Context, key, value string) error
}

// Store owns the client-held cart identifier and the drawer open flag.
// The identifier is read once at construction and never cleared.
type Store struct {
	api     API
	storage Storage
	logger  *zap.Logger

	mu     sync.Mutex
	cartID string
	open   bool
}

// NewStore creates a store, reading the stored identifier once.
// A storage read failure is logged and the store starts without a cart.
func NewStore(ctx context.Context, api API, storage Storage, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{api: api, storage: storage, logger: logger}

	id, err := storage.GetItem(ctx, CartIDKey)
	if err != nil {
		logger.Warn("Failed to read stored cart id", zap.Error(err))
		return s
	}
	s.cartID = id
	return s
}

// CartID returns the held identifier, "" when none
func (s *Store) CartID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartID
}

// GetOrCreateCart returns the held identifier, creating a remote cart when none is held
func (s *Store) GetOrCreateCart(ctx context.Context) (string, error) {
	if id := s.CartID(); id != "" {
		return id, nil
	}

	cart, err := s.api.CreateCart(ctx)
	if err != nil {
		return "", fmt.Errorf("create cart: %w", err)
	}

	s.mu.Lock()
	s.cartID = cart.ID
	s.mu.Unlock()

	if err := s.storage.SetItem(ctx, CartIDKey, cart.ID); err != nil {
		s.logger.Warn("Failed to persist cart id", zap.String("cart_id", cart.ID), zap.Error(err))
	}
	s.logger.Info("Cart created", zap.String("cart_id", cart.ID))
	return cart.ID, nil
}

// FetchCart fetches the current cart. It never creates one.
func (s *Store) FetchCart(ctx context.Context) (*domain.Cart, error) {
	id := s.CartID()
	if id == "" {
		return nil, errors.ErrNoCart
	}
	return s.api.CartByID(ctx, id)
}

// AddLine adds quantity units of a variant, creating the cart first when needed
func (s *Store) AddLine(ctx context.Context, merchandiseID string, quantity int) (*domain.Cart, error) {
	id, err := s.GetOrCreateCart(ctx)
	if err != nil {
		return nil, err
	}
	return s.api.AddLine(ctx, id, merchandiseID, quantity)
}

// UpdateLine sets a line's quantity. A quantity below 1 removes the line instead.
func (s *Store) UpdateLine(ctx context.Context, lineID string, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return s.RemoveLine(ctx, lineID)
	}
	id := s.CartID()
	if id == "" {
		return nil, errors.ErrNoCart
	}
	return s.api.UpdateLine(ctx, id, lineID, quantity)
}

// RemoveLine removes a line
func (s *Store) RemoveLine(ctx context.Context, lineID string) (*domain.Cart, error) {
	id := s.CartID()
	if id == "" {
		return nil, errors.ErrNoCart
	}
	return s.api.RemoveLine(ctx, id, lineID)
}

// Decrement lowers a line by one from its displayed quantity; at 1 the line is removed
func (s *Store) Decrement(ctx context.Context, lineID string, displayed int) (*domain.Cart, error) {
	if displayed > 1 {
		return s.UpdateLine(ctx, lineID, displayed-1)
	}
	return s.RemoveLine(ctx, lineID)
}

// Increment raises a line by one from its displayed quantity
func (s *Store) Increment(ctx context.Context, lineID string, displayed int) (*domain.Cart, error) {
	if displayed < 0 {
		displayed = 0
	}
	return s.UpdateLine(ctx, lineID, displayed+1)
}

func (s *Store) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// Toggle flips the open flag and returns the new value
func (s *Store) Toggle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = !s.open
	return s.open
}

func (s *Store) SetOpen(open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = open
}
