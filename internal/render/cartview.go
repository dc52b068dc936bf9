package render

import (
	"bytes"
	"context"
	stderrors "errors"
	"html/template"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/jafarshop/storefront-embed/internal/dom"
	"github.com/jafarshop/storefront-embed/internal/domain"
	"github.com/jafarshop/storefront-embed/pkg/errors"
)

// DefaultEmptyText is shown in the cart body when the cart has no lines
const DefaultEmptyText = "Your cart is empty"

// CartStore is what the cart view needs from the cart state store
type CartStore interface {
	FetchCart(ctx context.Context) (*domain.Cart, error)
	Decrement(ctx context.Context, lineID string, displayed int) (*domain.Cart, error)
	Increment(ctx context.Context, lineID string, displayed int) (*domain.Cart, error)
	RemoveLine(ctx context.Context, lineID string) (*domain.Cart, error)
	IsOpen() bool
	Toggle() bool
}

type Options struct {
	Locale    string
	EmptyText string
}

// CartView projects the current cart onto the drawer of a document and wires its controls
type CartView struct {
	doc       *dom.Document
	store     CartStore
	logger    *zap.Logger
	locale    string
	emptyText string
}

func NewCartView(doc *dom.Document, store CartStore, logger *zap.Logger, opts Options) *CartView {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Locale == "" {
		opts.Locale = DefaultLocale
	}
	if opts.EmptyText == "" {
		opts.EmptyText = DefaultEmptyText
	}
	return &CartView{doc: doc, store: store, logger: logger, locale: opts.Locale, emptyText: opts.EmptyText}
}

type lineView struct {
	ID           string
	ProductTitle string
	VariantTitle string
	ImageURL     string
	ImageAlt     string
	Quantity     int
	Price        string
}

var linesTemplate = template.Must(template.New("cart-lines").Parse(`
{{- if .Lines -}}
{{- range .Lines}}<div class="cart-line flex items-center gap-4 py-3 border-b">
  <div class="w-16">{{if .ImageURL}}<img src="{{.ImageURL}}" alt="{{.ImageAlt}}" class="w-full">{{end}}</div>
  <div class="flex-1">
    <div class="font-medium">{{.ProductTitle}}</div>
    <div class="cart-title text-sm text-gray-600">{{.VariantTitle}}</div>
    <div class="flex items-center gap-2 mt-1">
      <button class="cart-qty-btn minus" data-line-id="{{.ID}}">-</button>
      <span class="cart-qty">{{.Quantity}}</span>
      <button class="cart-qty-btn plus" data-line-id="{{.ID}}" data-qty="{{.Quantity}}">+</button>
      <button class="ml-2 text-sm text-red-500 remove" data-line-id="{{.ID}}">Remove</button>
    </div>
  </div>
  <div class="cart-price font-medium">{{.Price}}</div>
</div>{{end}}
{{- else -}}
<div class="p-4 text-center">{{.EmptyText}}</div>
{{- end -}}`))

// Render fetches the cart and projects it. Without a #cart-drawer nothing happens.
// When the cart cannot be fetched the document is left as it was.
func (v *CartView) Render(ctx context.Context) error {
	if v.doc.Query("#cart-drawer") == nil {
		return nil
	}

	cart, err := v.store.FetchCart(ctx)
	if stderrors.Is(err, errors.ErrNoCart) {
		v.logger.Debug("No cart yet, skipping render")
		return nil
	}
	if err != nil {
		v.logger.Warn("Failed to fetch cart, leaving drawer untouched",
			zap.String("kind", string(errors.KindOf(err))), zap.Error(err))
		return err
	}

	if err := v.renderLines(cart); err != nil {
		return err
	}

	subtotal := FormatMoney(cart.Subtotal, v.locale)
	for _, el := range v.doc.AllByID("cart-subtotal") {
		el.SetText(subtotal)
	}
	for _, el := range v.doc.AllByID("cart-checkout") {
		el.SetAttr("href", cart.CheckoutURL)
	}

	count := strconv.Itoa(cart.ItemCount())
	for _, el := range CartToggles(v.doc) {
		if el.Data("original-text") == "" {
			el.SetData("original-text", el.Text())
		}
		if tpl := el.Data("cart-text-template"); tpl != "" {
			el.SetText(strings.Replace(tpl, "{count}", count, 1))
		} else {
			el.SetText("CART (" + count + ")")
		}
	}
	return nil
}

func (v *CartView) renderLines(cart *domain.Cart) error {
	body := v.doc.Query("#cart-body")
	if body == nil {
		return nil
	}

	lines := make([]lineView, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		lv := lineView{
			ID:           l.ID,
			ProductTitle: l.Merchandise.ProductTitle,
			VariantTitle: l.Merchandise.Title,
			Quantity:     l.Quantity,
			Price:        FormatMoney(l.Total(), v.locale),
		}
		if img := l.Merchandise.Image; img != nil {
			lv.ImageURL = img.URL
			lv.ImageAlt = img.AltText
		}
		lines = append(lines, lv)
	}

	var buf bytes.Buffer
	data := struct {
		Lines     []lineView
		EmptyText string
	}{lines, v.emptyText}
	if err := linesTemplate.Execute(&buf, data); err != nil {
		return err
	}
	if err := body.SetInnerHTML(buf.String()); err != nil {
		return err
	}

	v.bindLineControls(body)
	return nil
}

// bindLineControls binds the minus, plus and remove controls inside body only.
// Matching controls elsewhere in the document are left to the host page.
func (v *CartView) bindLineControls(body *dom.Element) {
	for _, btn := range body.QueryAll(".cart-qty-btn.minus") {
		v.doc.BindOnce(btn, domain.EventClick, func(ctx context.Context, ev *dom.Event) error {
			qty := btn.NextElementSibling()
			if qty == nil {
				return &errors.ErrValidation{Message: "quantity display missing"}
			}
			displayed, err := strconv.Atoi(strings.TrimSpace(qty.Text()))
			if err != nil {
				return &errors.ErrValidation{Message: "displayed quantity is not a number"}
			}
			_, err = v.store.Decrement(ctx, btn.Data("line-id"), displayed)
			return v.afterMutation(ctx, "decrement", err)
		})
	}

	for _, btn := range body.QueryAll(".cart-qty-btn.plus") {
		v.doc.BindOnce(btn, domain.EventClick, func(ctx context.Context, ev *dom.Event) error {
			displayed, err := strconv.Atoi(btn.Data("qty"))
			if err != nil {
				return &errors.ErrValidation{Message: "data-qty is not a number"}
			}
			_, err = v.store.Increment(ctx, btn.Data("line-id"), displayed)
			return v.afterMutation(ctx, "increment", err)
		})
	}

	for _, btn := range body.QueryAll(".remove") {
		v.doc.BindOnce(btn, domain.EventClick, func(ctx context.Context, ev *dom.Event) error {
			_, err := v.store.RemoveLine(ctx, btn.Data("line-id"))
			return v.afterMutation(ctx, "remove", err)
		})
	}
}

// afterMutation re-renders whether or not the mutation succeeded; the drawer
// always shows the server's view of the cart
func (v *CartView) afterMutation(ctx context.Context, action string, err error) error {
	if err != nil {
		v.logger.Warn("Cart line update failed", zap.String("action", action), zap.Error(err))
	}
	return stderrors.Join(err, v.Render(ctx))
}

// Toggle flips the drawer. Opening re-renders; closing only hides.
func (v *CartView) Toggle(ctx context.Context) error {
	open := v.store.Toggle()
	for _, el := range v.doc.AllByID("cart-overlay") {
		el.ToggleClass("hidden", !open)
	}
	for _, el := range v.doc.AllByID("cart-drawer") {
		el.ToggleClass("translate-x-full", !open)
	}
	if open {
		return v.Render(ctx)
	}
	return nil
}

// Setup binds every toggle, close button and overlay once, then renders
func (v *CartView) Setup(ctx context.Context) error {
	for _, el := range CartToggles(v.doc) {
		v.doc.BindOnce(el, domain.EventClick, func(ctx context.Context, ev *dom.Event) error {
			ev.PreventDefault()
			return v.Toggle(ctx)
		})
	}
	for _, el := range v.doc.AllByID("cart-close") {
		v.doc.BindOnce(el, domain.EventClick, func(ctx context.Context, ev *dom.Event) error {
			return v.Toggle(ctx)
		})
	}
	for _, el := range v.doc.AllByID("cart-overlay") {
		v.doc.BindOnce(el, domain.EventClick, func(ctx context.Context, ev *dom.Event) error {
			if !ev.Target.Same(el) {
				return nil
			}
			return v.Toggle(ctx)
		})
	}
	return v.Render(ctx)
}

// CartToggles finds every element acting as a cart toggle, add-to-cart buttons excluded
func CartToggles(doc *dom.Document) []*dom.Element {
	var candidates []*dom.Element
	candidates = append(candidates, doc.QueryAll(".cart-toggle")...)
	candidates = append(candidates, doc.AllByID("cart-toggle")...)
	candidates = append(candidates, doc.QueryAll("[data-cart-toggle]")...)
	for _, el := range doc.QueryAll("button, a") {
		if strings.Contains(strings.ToLower(el.Text()), "cart") {
			candidates = append(candidates, el)
		}
	}

	var out []*dom.Element
	for _, el := range candidates {
		if IsAddToCartButton(el) || containsElement(out, el) {
			continue
		}
		out = append(out, el)
	}
	return out
}

// IsAddToCartButton reports whether el is an add-to-cart control
func IsAddToCartButton(el *dom.Element) bool {
	if el == nil {
		return false
	}
	if el.ID() == "add-to-cart" || el.HasClass("add-to-cart") || el.HasClass("add_to_cart") {
		return true
	}
	if el.GetAttr("data-action") == "add-to-cart" {
		return true
	}
	text := strings.ToLower(el.Text())
	return strings.Contains(text, "add to cart") || strings.Contains(text, "add-to-cart")
}

func containsElement(list []*dom.Element, el *dom.Element) bool {
	for _, x := range list {
		if x.Same(el) {
			return true
		}
	}
	return false
}

// DrawerFragment renders the cart body alone, for partial refreshes
func DrawerFragment(ctx context.Context, store CartStore, logger *zap.Logger, opts Options) (string, error) {
	doc, err := dom.ParseString(`<html><body><div id="cart-drawer"><div id="cart-body"></div></div></body></html>`)
	if err != nil {
		return "", err
	}
	view := NewCartView(doc, store, logger, opts)
	if err := view.Render(ctx); err != nil {
		return "", err
	}
	body := doc.ByID("cart-body")
	if len(body.Children()) == 0 {
		// no cart yet renders as an empty one
		if err := view.renderLines(&domain.Cart{}); err != nil {
			return "", err
		}
	}
	return body.InnerHTML(), nil
}
