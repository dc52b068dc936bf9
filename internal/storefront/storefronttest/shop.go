// Package storefronttest provides an in-memory stand-in for the Storefront API.
package storefronttest

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jafarshop/storefront-embed/internal/domain"
	"github.com/jafarshop/storefront-embed/internal/storefront"
	"github.com/jafarshop/storefront-embed/pkg/errors"
)

// Call records one operation issued against the Shop
type Call struct {
	Op            string
	CartID        string
	LineID        string
	MerchandiseID string
	Quantity      int
	Target        string // product id or collection handle
}

// Shop keeps carts, products and collections in memory and records every call.
// Fail injects an error per operation name ("cartCreate", "cart", "cartLinesAdd",
// "cartLinesUpdate", "cartLinesRemove", "product", "collectionByHandle").
type Shop struct {
	mu          sync.Mutex
	merchandise map[string]domain.Merchandise
	products    map[string]*domain.Product
	collections map[string][]domain.CollectionProduct
	carts       map[string]*domain.Cart
	nextID      int
	calls       []Call
	Fail        map[string]error
}

func NewShop() *Shop {
	return &Shop{
		merchandise: make(map[string]domain.Merchandise),
		products:    make(map[string]*domain.Product),
		collections: make(map[string][]domain.CollectionProduct),
		carts:       make(map[string]*domain.Cart),
		Fail:        make(map[string]error),
	}
}

// Money is a shorthand for tests
func Money(amount, currency string) domain.Money {
	return domain.Money{Amount: decimal.RequireFromString(amount), CurrencyCode: currency}
}

// AddMerchandise registers a variant that carts can hold
func (s *Shop) AddMerchandise(m domain.Merchandise) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.merchandise[m.ID] = m
}

// AddProduct registers a product under its global id
func (s *Shop) AddProduct(p *domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[storefront.ProductGID(p.ID)] = p
	for _, v := range p.Variants {
		s.merchandise[v.ID] = domain.Merchandise{ID: v.ID, Title: v.Title, ProductTitle: p.Title, Price: v.Price}
	}
}

// SetCollection registers the products of a collection handle
func (s *Shop) SetCollection(handle string, products []domain.CollectionProduct) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections[handle] = products
}

// SeedCart creates a cart holding the given lines and returns its id
func (s *Shop) SeedCart(lines ...domain.Line) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart := s.newCartLocked()
	for _, l := range lines {
		if l.ID == "" {
			l.ID = s.newIDLocked("CartLine")
		}
		s.merchandise[l.Merchandise.ID] = l.Merchandise
		cart.Lines = append(cart.Lines, l)
	}
	recompute(cart)
	return cart.ID
}

// ForgetCart drops a cart so its id resolves to not found, like an expired cart
func (s *Shop) ForgetCart(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, id)
}

// Cart returns a copy of a stored cart, or nil
func (s *Shop) Cart(id string) *domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart, ok := s.carts[id]
	if !ok {
		return nil
	}
	return clone(cart)
}

// Calls returns the recorded calls in order
func (s *Shop) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// Count returns how many times op was called
func (s *Shop) Count(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

func (s *Shop) CreateCart(ctx context.Context) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.recordLocked(Call{Op: "cartCreate"}); err != nil {
		return nil, err
	}
	cart := s.newCartLocked()
	return &domain.Cart{ID: cart.ID, CheckoutURL: cart.CheckoutURL}, nil
}

func (s *Shop) CartByID(ctx context.Context, cartID string) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.recordLocked(Call{Op: "cart", CartID: cartID}); err != nil {
		return nil, err
	}
	cart, ok := s.carts[cartID]
	if !ok {
		return nil, &errors.ErrNotFound{Resource: "cart", ID: cartID}
	}
	return clone(cart), nil
}

func (s *Shop) AddLine(ctx context.Context, cartID, merchandiseID string, quantity int) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.recordLocked(Call{Op: "cartLinesAdd", CartID: cartID, MerchandiseID: merchandiseID, Quantity: quantity}); err != nil {
		return nil, err
	}
	cart, ok := s.carts[cartID]
	if !ok {
		return nil, &errors.ErrNotFound{Resource: "cart", ID: cartID}
	}
	m, ok := s.merchandise[merchandiseID]
	if !ok {
		return nil, &errors.ErrUserErrors{Op: "cartLinesAdd", Errors: []errors.UserError{
			{Field: []string{"lines", "0", "merchandiseId"}, Message: "The merchandise does not exist."},
		}}
	}
	if line := findLine(cart, func(l domain.Line) bool { return l.Merchandise.ID == merchandiseID }); line != nil {
		line.Quantity += quantity
	} else {
		cart.Lines = append(cart.Lines, domain.Line{ID: s.newIDLocked("CartLine"), Quantity: quantity, Merchandise: m})
	}
	recompute(cart)
	return &domain.Cart{ID: cart.ID}, nil
}

func (s *Shop) UpdateLine(ctx context.Context, cartID, lineID string, quantity int) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.recordLocked(Call{Op: "cartLinesUpdate", CartID: cartID, LineID: lineID, Quantity: quantity}); err != nil {
		return nil, err
	}
	cart, ok := s.carts[cartID]
	if !ok {
		return nil, &errors.ErrNotFound{Resource: "cart", ID: cartID}
	}
	line := findLine(cart, func(l domain.Line) bool { return l.ID == lineID })
	if line == nil {
		return nil, &errors.ErrUserErrors{Op: "cartLinesUpdate", Errors: []errors.UserError{{Message: "line not found"}}}
	}
	if quantity <= 0 {
		removeLine(cart, lineID)
	} else {
		line.Quantity = quantity
	}
	recompute(cart)
	return &domain.Cart{ID: cart.ID}, nil
}

func (s *Shop) RemoveLine(ctx context.Context, cartID, lineID string) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.recordLocked(Call{Op: "cartLinesRemove", CartID: cartID, LineID: lineID}); err != nil {
		return nil, err
	}
	cart, ok := s.carts[cartID]
	if !ok {
		return nil, &errors.ErrNotFound{Resource: "cart", ID: cartID}
	}
	removeLine(cart, lineID)
	recompute(cart)
	return &domain.Cart{ID: cart.ID}, nil
}

func (s *Shop) ProductByID(ctx context.Context, id string) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gid := storefront.ProductGID(id)
	if err := s.recordLocked(Call{Op: "product", Target: gid}); err != nil {
		return nil, err
	}
	p, ok := s.products[gid]
	if !ok {
		return nil, &errors.ErrNotFound{Resource: "product", ID: gid}
	}
	return p, nil
}

func (s *Shop) CollectionProducts(ctx context.Context, handle string, first int) ([]domain.CollectionProduct, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.recordLocked(Call{Op: "collectionByHandle", Target: handle, Quantity: first}); err != nil {
		return nil, err
	}
	products, ok := s.collections[handle]
	if !ok {
		return nil, &errors.ErrNotFound{Resource: "collection", ID: handle}
	}
	if first > 0 && len(products) > first {
		products = products[:first]
	}
	return append([]domain.CollectionProduct(nil), products...), nil
}

func (s *Shop) recordLocked(c Call) error {
	s.calls = append(s.calls, c)
	return s.Fail[c.Op]
}

func (s *Shop) newIDLocked(kind string) string {
	s.nextID++
	return fmt.Sprintf("gid://shopify/%s/%d", kind, s.nextID)
}

func (s *Shop) newCartLocked() *domain.Cart {
	id := s.newIDLocked("Cart")
	cart := &domain.Cart{
		ID:          id,
		CheckoutURL: fmt.Sprintf("https://shop.test/checkouts/%d", s.nextID),
		Subtotal:    Money("0", "USD"),
	}
	s.carts[id] = cart
	return cart
}

func findLine(cart *domain.Cart, match func(domain.Line) bool) *domain.Line {
	for i := range cart.Lines {
		if match(cart.Lines[i]) {
			return &cart.Lines[i]
		}
	}
	return nil
}

func removeLine(cart *domain.Cart, lineID string) {
	kept := cart.Lines[:0]
	for _, l := range cart.Lines {
		if l.ID != lineID {
			kept = append(kept, l)
		}
	}
	cart.Lines = kept
}

func recompute(cart *domain.Cart) {
	subtotal := Money("0", "USD")
	for i, l := range cart.Lines {
		total := l.Total()
		if i == 0 {
			subtotal.CurrencyCode = total.CurrencyCode
		}
		subtotal.Amount = subtotal.Amount.Add(total.Amount)
	}
	cart.Subtotal = subtotal
}

func clone(cart *domain.Cart) *domain.Cart {
	c := *cart
	c.Lines = append([]domain.Line(nil), cart.Lines...)
	return &c
}
