package storefront

import (
	"github.com/shopspring/decimal"

	"github.com/jafarshop/storefront-embed/internal/domain"
	"github.com/jafarshop/storefront-embed/pkg/errors"
)

// Wire shapes of the Storefront API. Connections arrive as edges/node pairs
// and are flattened into domain types before leaving the package.

type moneyV2 struct {
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
}

func (m moneyV2) toDomain() domain.Money {
	return domain.Money{Amount: m.Amount, CurrencyCode: m.CurrencyCode}
}

type imageNode struct {
	URL     string `json:"url"`
	AltText string `json:"altText"`
}

type imageConnection struct {
	Edges []struct {
		Node imageNode `json:"node"`
	} `json:"edges"`
}

func (ic imageConnection) toDomain() []domain.Image {
	images := make([]domain.Image, 0, len(ic.Edges))
	for _, e := range ic.Edges {
		images = append(images, domain.Image{URL: e.Node.URL, AltText: e.Node.AltText})
	}
	return images
}

type variantNode struct {
	ID                string  `json:"id"`
	Title             string  `json:"title"`
	AvailableForSale  bool    `json:"availableForSale"`
	PriceV2           moneyV2 `json:"priceV2"`
	QuantityAvailable *int    `json:"quantityAvailable"`
}

type productNode struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	DescriptionHTML string          `json:"descriptionHtml"`
	Handle          string          `json:"handle"`
	Images          imageConnection `json:"images"`
	Variants        struct {
		Edges []struct {
			Node variantNode `json:"node"`
		} `json:"edges"`
	} `json:"variants"`
}

func (p *productNode) toDomain() *domain.Product {
	product := &domain.Product{
		ID:              p.ID,
		Title:           p.Title,
		Handle:          p.Handle,
		Description:     p.Description,
		DescriptionHTML: p.DescriptionHTML,
		Images:          p.Images.toDomain(),
		Variants:        make([]domain.Variant, 0, len(p.Variants.Edges)),
	}
	for _, e := range p.Variants.Edges {
		product.Variants = append(product.Variants, domain.Variant{
			ID:                e.Node.ID,
			Title:             e.Node.Title,
			AvailableForSale:  e.Node.AvailableForSale,
			Price:             e.Node.PriceV2.toDomain(),
			QuantityAvailable: e.Node.QuantityAvailable,
		})
	}
	return product
}

type lineNode struct {
	ID          string `json:"id"`
	Quantity    int    `json:"quantity"`
	Merchandise struct {
		ID      string `json:"id"`
		Title   string `json:"title"`
		Product struct {
			Title string `json:"title"`
		} `json:"product"`
		Image   *imageNode `json:"image"`
		PriceV2 moneyV2    `json:"priceV2"`
	} `json:"merchandise"`
}

type cartNode struct {
	ID          string `json:"id"`
	CheckoutURL string `json:"checkoutUrl"`
	Lines       struct {
		Edges []struct {
			Node lineNode `json:"node"`
		} `json:"edges"`
	} `json:"lines"`
	Cost struct {
		SubtotalAmount moneyV2 `json:"subtotalAmount"`
	} `json:"cost"`
}

func (c *cartNode) toDomain() *domain.Cart {
	cart := &domain.Cart{
		ID:          c.ID,
		CheckoutURL: c.CheckoutURL,
		Subtotal:    c.Cost.SubtotalAmount.toDomain(),
		Lines:       make([]domain.Line, 0, len(c.Lines.Edges)),
	}
	for _, e := range c.Lines.Edges {
		n := e.Node
		line := domain.Line{
			ID:       n.ID,
			Quantity: n.Quantity,
			Merchandise: domain.Merchandise{
				ID:           n.Merchandise.ID,
				Title:        n.Merchandise.Title,
				ProductTitle: n.Merchandise.Product.Title,
				Price:        n.Merchandise.PriceV2.toDomain(),
			},
		}
		if n.Merchandise.Image != nil && n.Merchandise.Image.URL != "" {
			line.Merchandise.Image = &domain.Image{URL: n.Merchandise.Image.URL, AltText: n.Merchandise.Image.AltText}
		}
		cart.Lines = append(cart.Lines, line)
	}
	return cart
}

// cartPayload is the shape shared by cartCreate and the cartLines* mutations
type cartPayload struct {
	Cart       *cartNode          `json:"cart"`
	UserErrors []errors.UserError `json:"userErrors"`
}

type collectionNode struct {
	Products struct {
		Edges []struct {
			Node struct {
				ID       string          `json:"id"`
				Handle   string          `json:"handle"`
				Title    string          `json:"title"`
				Images   imageConnection `json:"images"`
				Variants struct {
					Edges []struct {
						Node struct {
							Title   string  `json:"title"`
							PriceV2 moneyV2 `json:"priceV2"`
						} `json:"node"`
					} `json:"edges"`
				} `json:"variants"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"products"`
}

func (c *collectionNode) toDomain() []domain.CollectionProduct {
	products := make([]domain.CollectionProduct, 0, len(c.Products.Edges))
	for _, e := range c.Products.Edges {
		n := e.Node
		p := domain.CollectionProduct{ID: n.ID, Handle: n.Handle, Title: n.Title}
		for _, img := range n.Images.Edges {
			if img.Node.URL != "" {
				p.ImageURLs = append(p.ImageURLs, img.Node.URL)
			}
		}
		if len(n.Variants.Edges) > 0 {
			v := n.Variants.Edges[0].Node
			price := v.PriceV2.toDomain()
			p.VariantTitle = v.Title
			p.Price = &price
		}
		products = append(products, p)
	}
	return products
}
