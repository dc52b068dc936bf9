// Package site composes the cart drawer and page controllers over one host page.
package site

import (
	"context"
	stderrors "errors"

	"go.uber.org/zap"

	"github.com/jafarshop/storefront-embed/internal/cart"
	"github.com/jafarshop/storefront-embed/internal/dom"
	"github.com/jafarshop/storefront-embed/internal/domain"
	"github.com/jafarshop/storefront-embed/internal/page"
	"github.com/jafarshop/storefront-embed/internal/render"
	"github.com/jafarshop/storefront-embed/pkg/errors"
)

// Storefront is everything the composed page asks of the Storefront API
type Storefront interface {
	cart.API
	page.ProductSource
	page.CollectionSource
}

// Deps are the explicit dependencies of one composed page.
// Store may be prebuilt; otherwise one is created over Client and Storage.
type Deps struct {
	Client    Storefront
	Storage   cart.Storage
	Store     *cart.Store
	Logger    *zap.Logger
	Locale    string
	EmptyText string
	PageSize  int
	PagePath  string
	OpenCart  bool
}

// Page is a host document with its controllers attached. Absent features are nil.
type Page struct {
	Doc        *dom.Document
	Store      *cart.Store
	Cart       *render.CartView
	Product    *page.ProductPage
	Collection *page.CollectionPage

	logger *zap.Logger
}

// Compose wires cart, product and collection features onto doc.
// Feature failures are logged and joined into the returned error; the page is always returned
// so callers can still serve it.
func Compose(ctx context.Context, doc *dom.Document, deps Deps) (*Page, error) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	store := deps.Store
	if store == nil {
		store = cart.NewStore(ctx, deps.Client, deps.Storage, logger)
	}
	p := &Page{Doc: doc, Store: store, logger: logger}

	var errs []error

	var drawer page.CartDrawer
	if doc.Query("#cart-drawer") != nil {
		p.Cart = render.NewCartView(doc, store, logger, render.Options{Locale: deps.Locale, EmptyText: deps.EmptyText})
		drawer = p.Cart
		if err := p.Cart.Setup(ctx); err != nil {
			logger.Warn("Cart setup failed", zap.String("kind", string(errors.KindOf(err))), zap.Error(err))
			errs = append(errs, err)
		}
		if deps.OpenCart && !store.IsOpen() {
			if err := p.Cart.Toggle(ctx); err != nil {
				errs = append(errs, err)
			}
		}
	}

	if doc.ByID("product-embed") != nil {
		p.Product = page.NewProductPage(doc, deps.Client, store, drawer, logger, deps.Locale)
		if err := p.Product.Init(ctx); err != nil {
			logger.Warn("Product page failed", zap.String("kind", string(errors.KindOf(err))), zap.Error(err))
			errs = append(errs, err)
		}
	}

	collection := page.NewCollectionPage(doc, deps.Client, logger, page.CollectionOptions{
		Locale:   deps.Locale,
		PageSize: deps.PageSize,
		PagePath: deps.PagePath,
	})
	if collection.Grid() != nil {
		p.Collection = collection
		if err := collection.Init(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	return p, stderrors.Join(errs...)
}

// SetValues sets the value attribute of form controls by id, the way a submitted form carries them
func (p *Page) SetValues(values map[string]string) {
	for id, value := range values {
		for _, el := range p.Doc.AllByID(id) {
			el.SetAttr("value", value)
		}
	}
}

// Click dispatches a click on the first element matching sel
func (p *Page) Click(ctx context.Context, sel string) error {
	el := p.Doc.Query(sel)
	if el == nil {
		return &errors.ErrValidation{Message: "no element matches " + sel}
	}
	_, err := p.Doc.Dispatch(ctx, el, domain.EventClick)
	if err != nil {
		p.logger.Warn("Click handler failed", zap.String("selector", sel), zap.Error(err))
	}
	return err
}

// HTML renders the patched document
func (p *Page) HTML() string {
	return p.Doc.String()
}
