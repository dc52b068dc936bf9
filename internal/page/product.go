package page

import (
	"context"
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/jafarshop/storefront-embed/internal/dom"
	"github.com/jafarshop/storefront-embed/internal/domain"
	"github.com/jafarshop/storefront-embed/internal/render"
)

const (
	invisibleClass     = "invisible-before-load"
	lightboxLinkClass  = ".product-header4_lightbox-link"
	defaultButtonLabel = "Add to Cart"
	addingLabel        = "Adding..."
	lowStockThreshold  = 10
)

// image slots in display order; slot i shows product image i
var imageSlots = []string{"prod-img-main", "prod-img-1", "prod-img-2", "prod-img-3"}

// ProductSource loads products
type ProductSource interface {
	ProductByID(ctx context.Context, id string) (*domain.Product, error)
}

// CartActions is the cart operation the product page needs
type CartActions interface {
	AddLine(ctx context.Context, merchandiseID string, quantity int) (*domain.Cart, error)
}

// CartDrawer is the cart UI refreshed after adding to cart
type CartDrawer interface {
	Render(ctx context.Context) error
	Toggle(ctx context.Context) error
}

// ProductPage fills a #product-embed page with one product and wires add-to-cart
type ProductPage struct {
	doc    *dom.Document
	source ProductSource
	cart   CartActions
	drawer CartDrawer
	logger *zap.Logger
	locale string

	product  *domain.Product
	selected *domain.Variant
}

// NewProductPage creates the controller. drawer may be nil when the page has no cart drawer.
func NewProductPage(doc *dom.Document, source ProductSource, cart CartActions, drawer CartDrawer, logger *zap.Logger, locale string) *ProductPage {
	if logger == nil {
		logger = zap.NewNop()
	}
	if locale == "" {
		locale = render.DefaultLocale
	}
	return &ProductPage{doc: doc, source: source, cart: cart, drawer: drawer, logger: logger, locale: locale}
}

// Load fetches the product named by #product-embed[data-shopify-id].
// It returns (nil, nil) when the page carries no product embed.
func (p *ProductPage) Load(ctx context.Context) (*domain.Product, error) {
	embed := p.doc.ByID("product-embed")
	if embed == nil {
		return nil, nil
	}
	id := strings.TrimSpace(embed.Data("shopify-id"))
	if id == "" {
		return nil, nil
	}

	product, err := p.source.ProductByID(ctx, id)
	if err != nil {
		p.logger.Warn("Failed to load product", zap.String("product_id", id), zap.Error(err))
		return nil, err
	}
	p.product = product
	return product, nil
}

func (p *ProductPage) Product() *domain.Product {
	return p.product
}

// SelectedVariant returns the variant add-to-cart will use, or nil
func (p *ProductPage) SelectedVariant() *domain.Variant {
	return p.selected
}

// Render projects the loaded product onto the page
func (p *ProductPage) Render() {
	if p.product == nil {
		return
	}

	if el := p.doc.ByID("prod-title"); el != nil {
		el.SetText(p.product.Title)
		el.RemoveClass(invisibleClass)
	}
	if el := p.doc.ByID("prod-desc"); el != nil {
		if err := el.SetInnerHTML(p.product.DescriptionHTML); err != nil {
			p.logger.Warn("Failed to render product description", zap.Error(err))
		}
		el.RemoveClass(invisibleClass)
	}

	p.renderImages()
	p.renderVariantSelect()
	p.updateSelectedVariant()

	if el := p.doc.ByID("prod-price"); el != nil {
		el.RemoveClass(invisibleClass)
	}
}

func (p *ProductPage) renderImages() {
	images := p.product.Images
	for i, id := range imageSlots {
		el := p.doc.ByID(id)
		if el == nil {
			continue
		}
		link := el.Closest(lightboxLinkClass)

		if i < len(images) && images[i].URL != "" {
			alt := images[i].AltText
			if alt == "" {
				alt = p.product.Title
			}
			el.SetAttr("src", images[i].URL)
			el.SetAttr("alt", alt)
			if link != nil {
				link.SetStyleDisplay("")
			}
		} else if link != nil {
			link.SetStyleDisplay("none")
		}

		if len(images) > 0 {
			el.RemoveClass(invisibleClass)
		}
	}
}

func (p *ProductPage) renderVariantSelect() {
	if len(p.product.Variants) == 0 {
		return
	}
	container := p.doc.ByID("size-select")
	if container == nil {
		return
	}

	container.Clear()
	container.RemoveAttr("data-selected-variant")
	var firstAvailable *dom.Element
	for _, v := range p.product.Variants {
		btn := p.doc.CreateElement("button")
		btn.SetAttr("type", "button")
		btn.AddClass("variant-button")
		if !v.AvailableForSale {
			btn.AddClass("disabled")
		}
		btn.SetText(v.Title)
		btn.SetData("variant-id", v.ID)
		btn.SetDisabled(!v.AvailableForSale)
		container.AppendChild(btn)

		variantID := v.ID
		p.doc.BindOnce(btn, domain.EventClick, func(ctx context.Context, ev *dom.Event) error {
			for _, b := range container.QueryAll(".variant-button") {
				b.RemoveClass("active")
			}
			btn.AddClass("active")
			container.SetData("selected-variant", variantID)
			p.updateSelectedVariant()
			return nil
		})

		if firstAvailable == nil && v.AvailableForSale {
			firstAvailable = btn
		}
	}

	if firstAvailable != nil {
		firstAvailable.AddClass("active")
		container.SetData("selected-variant", firstAvailable.Data("variant-id"))
	}
}

func (p *ProductPage) updateSelectedVariant() {
	container := p.doc.ByID("size-select")
	if container == nil {
		return
	}
	selected := p.product.Variant(container.Data("selected-variant"))
	p.selected = selected
	if selected == nil {
		return
	}

	priceEl := p.doc.ByID("prod-price")
	if priceEl != nil {
		priceEl.SetText(render.FormatMoney(selected.Price, p.locale))
	}

	warning := p.doc.ByID("stock-warning")
	if warning == nil && priceEl != nil && priceEl.Parent() != nil {
		warning = p.doc.CreateElement("div")
		warning.SetAttr("id", "stock-warning")
		warning.SetStyle("color", "#c00")
		warning.SetStyle("margin-top", "4px")
		priceEl.After(warning)
	}
	if warning == nil {
		return
	}

	if qty := selected.QuantityAvailable; qty != nil && *qty > 0 && *qty < lowStockThreshold {
		warning.SetText(fmt.Sprintf("Only %d left in stock!", *qty))
		warning.SetStyleDisplay("flex")
	} else {
		warning.SetStyleDisplay("none")
	}
}

// BindAddToCart restores the #add-to-cart label and wires its click
func (p *ProductPage) BindAddToCart() {
	button := p.doc.ByID("add-to-cart")
	if button == nil {
		return
	}
	if button.Data("original-text") == "" {
		button.SetData("original-text", defaultButtonLabel)
	}
	button.SetText(button.Data("original-text"))

	p.doc.BindOnce(button, domain.EventClick, func(ctx context.Context, ev *dom.Event) error {
		if p.selected == nil {
			return nil
		}
		quantity := 1
		if input := p.doc.ByID("qty"); input != nil {
			q, err := strconv.Atoi(strings.TrimSpace(input.Value()))
			if err != nil {
				return nil
			}
			quantity = q
		}
		if quantity <= 0 {
			return nil
		}

		button.SetDisabled(true)
		button.SetText(addingLabel)

		var errs []error
		if _, err := p.cart.AddLine(ctx, p.selected.ID, quantity); err != nil {
			p.logger.Warn("Failed to add to cart",
				zap.String("variant_id", p.selected.ID), zap.Int("quantity", quantity), zap.Error(err))
			errs = append(errs, err)
		}
		if p.drawer != nil {
			errs = append(errs, p.drawer.Render(ctx), p.drawer.Toggle(ctx))
		}

		button.SetDisabled(false)
		button.SetText(button.Data("original-text"))
		return stderrors.Join(errs...)
	})
}

// Init loads, renders and wires the page. A page without a product embed is left alone.
func (p *ProductPage) Init(ctx context.Context) error {
	product, err := p.Load(ctx)
	if err != nil {
		return err
	}
	if product == nil {
		return nil
	}
	p.Render()
	p.BindAddToCart()
	return nil
}
