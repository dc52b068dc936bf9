package page

import (
	"bytes"
	"context"
	"html/template"
	"strings"

	"go.uber.org/zap"

	"github.com/jafarshop/storefront-embed/internal/dom"
	"github.com/jafarshop/storefront-embed/internal/domain"
	"github.com/jafarshop/storefront-embed/internal/render"
	"github.com/jafarshop/storefront-embed/internal/storefront"
)

// grid containers, tried in order
var gridSelectors = []string{"#product-grid", ".product-grid", ".collection-grid", ".w-dyn-items"}

// CollectionSource lists the products of a collection
type CollectionSource interface {
	CollectionProducts(ctx context.Context, handle string, first int) ([]domain.CollectionProduct, error)
}

type CollectionOptions struct {
	Locale   string
	PageSize int
	// PagePath is the request path of the page, used to find the handle in /collections/{handle}
	PagePath string
}

// CollectionPage fills a product grid with the products of one collection
type CollectionPage struct {
	doc      *dom.Document
	source   CollectionSource
	logger   *zap.Logger
	locale   string
	pageSize int
	pagePath string
}

func NewCollectionPage(doc *dom.Document, source CollectionSource, logger *zap.Logger, opts CollectionOptions) *CollectionPage {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Locale == "" {
		opts.Locale = render.DefaultLocale
	}
	if opts.PageSize <= 0 {
		opts.PageSize = storefront.DefaultCollectionSize
	}
	return &CollectionPage{
		doc:      doc,
		source:   source,
		logger:   logger,
		locale:   opts.Locale,
		pageSize: opts.PageSize,
		pagePath: opts.PagePath,
	}
}

// Grid returns the product grid container, or nil when the page has none
func (c *CollectionPage) Grid() *dom.Element {
	for _, sel := range gridSelectors {
		if el := c.doc.Query(sel); el != nil {
			return el
		}
	}
	return nil
}

// Handle resolves the collection handle from the grid, the body, then the page path
func (c *CollectionPage) Handle() string {
	if grid := c.Grid(); grid != nil {
		if h := strings.TrimSpace(grid.Data("collection")); h != "" {
			return h
		}
		if h := strings.TrimSpace(grid.Data("collection-handle")); h != "" {
			return h
		}
	}
	if body := c.doc.Body(); body != nil {
		if h := strings.TrimSpace(body.Data("collection")); h != "" {
			return h
		}
	}
	return HandleFromPath(c.pagePath)
}

// HandleFromPath returns the segment after "collections" in path, or ""
func HandleFromPath(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	for i, p := range parts {
		if p == "collections" && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	return ""
}

type productCard struct {
	Handle     string
	Title      string
	MainImage  string
	HoverImage string
	Price      string
}

var cardTemplate = template.Must(template.New("product-card").Parse(`
{{- range .}}<div role="listitem" class="product7_item w-dyn-item">
  <a href="/products/{{.Handle}}" class="product7_item-link w-inline-block">
    <div class="margin-bottom margin-xsmall">
      <div class="product7_image-wrapper">
        <img src="{{.MainImage}}" class="product7_image" alt="{{.Title}}" loading="lazy" />
        <img src="{{.HoverImage}}" class="product7_image is-hover" alt="{{.Title}}" loading="lazy" />
      </div>
    </div>
    <div class="margin-bottom margin-xxsmall">
      <div class="text-size-medium text-weight-semibold">{{.Title}}</div>
    </div>
    <div class="text-size-large text-weight-semibold">{{.Price}}</div>
  </a>
</div>{{end}}`))

// Load fetches the collection and replaces the grid contents with one card per product.
// On failure the grid keeps whatever it showed before.
func (c *CollectionPage) Load(ctx context.Context, handle string) error {
	grid := c.Grid()
	if grid == nil || handle == "" {
		return nil
	}

	products, err := c.source.CollectionProducts(ctx, handle, c.pageSize)
	if err != nil {
		c.logger.Warn("Failed to load collection, leaving grid untouched",
			zap.String("handle", handle), zap.Error(err))
		return err
	}

	cards := make([]productCard, 0, len(products))
	for _, p := range products {
		card := productCard{Handle: p.Handle, Title: p.Title}
		if len(p.ImageURLs) > 0 {
			card.MainImage = p.ImageURLs[0]
		}
		// hover falls back to the main image
		card.HoverImage = card.MainImage
		if len(p.ImageURLs) > 1 {
			card.HoverImage = p.ImageURLs[1]
		}
		if p.Price != nil {
			card.Price = render.FormatMoney(*p.Price, c.locale)
		}
		cards = append(cards, card)
	}

	var buf bytes.Buffer
	if err := cardTemplate.Execute(&buf, cards); err != nil {
		return err
	}
	if err := grid.SetInnerHTML(buf.String()); err != nil {
		return err
	}
	c.logger.Debug("Rendered collection", zap.String("handle", handle), zap.Int("products", len(cards)))
	return nil
}

// Init loads the collection named by the page. Pages without a grid or a handle are left alone.
func (c *CollectionPage) Init(ctx context.Context) error {
	return c.Load(ctx, c.Handle())
}
