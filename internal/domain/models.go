package domain

import (
	"github.com/shopspring/decimal"
)

// Money is an amount in a currency, as returned by the Storefront API
type Money struct {
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currency_code"`
}

// Times returns the money multiplied by a quantity, keeping the currency
func (m Money) Times(quantity int) Money {
	return Money{
		Amount:       m.Amount.Mul(decimal.NewFromInt(int64(quantity))),
		CurrencyCode: m.CurrencyCode,
	}
}

// Image represents a product or variant image
type Image struct {
	URL     string `json:"url"`
	AltText string `json:"alt_text,omitempty"`
}

// Merchandise represents the purchasable unit (variant) a cart line points at
type Merchandise struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	ProductTitle string `json:"product_title"`
	Image        *Image `json:"image,omitempty"`
	Price        Money  `json:"price"`
}

// Line represents one entry in a cart. Quantity is always >= 1.
type Line struct {
	ID          string      `json:"id"`
	Quantity    int         `json:"quantity"`
	Merchandise Merchandise `json:"merchandise"`
}

// Total returns unit price times quantity, in the line's own currency
func (l Line) Total() Money {
	return l.Merchandise.Price.Times(l.Quantity)
}

// Cart is an immutable snapshot of the remote cart
type Cart struct {
	ID          string `json:"id"`
	Lines       []Line `json:"lines"`
	Subtotal    Money  `json:"subtotal"`
	CheckoutURL string `json:"checkout_url"`
}

// ItemCount returns the sum of line quantities
func (c *Cart) ItemCount() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// Variant represents a purchasable configuration of a product
type Variant struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	AvailableForSale  bool   `json:"available_for_sale"`
	Price             Money  `json:"price"`
	QuantityAvailable *int   `json:"quantity_available,omitempty"`
}

// Product represents a product with its images and variants
type Product struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Handle          string    `json:"handle"`
	Description     string    `json:"description"`
	DescriptionHTML string    `json:"description_html"`
	Images          []Image   `json:"images"`
	Variants        []Variant `json:"variants"`
}

// Variant looks up a variant by id
func (p *Product) Variant(id string) *Variant {
	for i := range p.Variants {
		if p.Variants[i].ID == id {
			return &p.Variants[i]
		}
	}
	return nil
}

// FirstAvailableVariant returns the first variant that can be sold, or nil
func (p *Product) FirstAvailableVariant() *Variant {
	for i := range p.Variants {
		if p.Variants[i].AvailableForSale {
			return &p.Variants[i]
		}
	}
	return nil
}

// CollectionProduct is the summary of a product shown in a collection grid
type CollectionProduct struct {
	ID           string   `json:"id"`
	Handle       string   `json:"handle"`
	Title        string   `json:"title"`
	ImageURLs    []string `json:"image_urls"`
	VariantTitle string   `json:"variant_title,omitempty"`
	Price        *Money   `json:"price,omitempty"`
}

// AjaxProduct is the storefront's /products/{handle}.js representation
type AjaxProduct struct {
	ID       int64         `json:"id"`
	Title    string        `json:"title"`
	Handle   string        `json:"handle"`
	Vendor   string        `json:"vendor"`
	Variants []AjaxVariant `json:"variants"`
}

// AjaxVariant is a variant in the Ajax product JSON; Price is in minor units
type AjaxVariant struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Price     int64  `json:"price"`
	Available bool   `json:"available"`
}
