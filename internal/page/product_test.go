package page

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jafarshop/storefront-embed/internal/cart"
	"github.com/jafarshop/storefront-embed/internal/dom"
	"github.com/jafarshop/storefront-embed/internal/domain"
	"github.com/jafarshop/storefront-embed/internal/repository"
	"github.com/jafarshop/storefront-embed/internal/repository/memory"
	"github.com/jafarshop/storefront-embed/internal/storefront/storefronttest"
	"github.com/jafarshop/storefront-embed/pkg/errors"
)

const productPage = `<html><body>
<div id="product-embed" data-shopify-id="42">
  <h1 id="prod-title" class="invisible-before-load">Loading</h1>
  <div id="prod-desc" class="invisible-before-load"></div>
  <a class="product-header4_lightbox-link"><img id="prod-img-main" class="invisible-before-load"></a>
  <a class="product-header4_lightbox-link"><img id="prod-img-1" class="invisible-before-load"></a>
  <a class="product-header4_lightbox-link"><img id="prod-img-2" class="invisible-before-load"></a>
  <div id="size-select"><button>stale</button></div>
  <div class="price-row"><span id="prod-price" class="invisible-before-load"></span></div>
  <input id="qty" value="2">
  <button id="add-to-cart">Buy</button>
</div>
</body></html>`

func intPtr(n int) *int { return &n }

func teeProduct() *domain.Product {
	return &domain.Product{
		ID:              "42",
		Title:           "Tee",
		Handle:          "tee",
		DescriptionHTML: "<p>Soft <b>cotton</b></p>",
		Images: []domain.Image{
			{URL: "https://cdn.example.com/front.jpg", AltText: "Front"},
			{URL: "https://cdn.example.com/back.jpg"},
		},
		Variants: []domain.Variant{
			{ID: "gid://shopify/ProductVariant/1", Title: "S", AvailableForSale: false, Price: storefronttest.Money("10", "USD")},
			{ID: "gid://shopify/ProductVariant/2", Title: "M", AvailableForSale: true, Price: storefronttest.Money("12.5", "USD"), QuantityAvailable: intPtr(3)},
			{ID: "gid://shopify/ProductVariant/3", Title: "L", AvailableForSale: true, Price: storefronttest.Money("14", "USD"), QuantityAvailable: intPtr(50)},
		},
	}
}

type drawerSpy struct {
	calls []string
}

func (d *drawerSpy) Render(ctx context.Context) error {
	d.calls = append(d.calls, "render")
	return nil
}

func (d *drawerSpy) Toggle(ctx context.Context) error {
	d.calls = append(d.calls, "toggle")
	return nil
}

type productFixture struct {
	doc    *dom.Document
	shop   *storefronttest.Shop
	store  *cart.Store
	drawer *drawerSpy
	page   *ProductPage
}

func newProductFixture(t *testing.T, html string) *productFixture {
	t.Helper()
	doc, err := dom.ParseString(html)
	require.NoError(t, err)

	shop := storefronttest.NewShop()
	shop.AddProduct(teeProduct())
	storage := repository.NewSessionStorage(memory.NewClientStorageRepository(), "s1", nil)
	store := cart.NewStore(context.Background(), shop, storage, nil)
	drawer := &drawerSpy{}
	return &productFixture{
		doc:    doc,
		shop:   shop,
		store:  store,
		drawer: drawer,
		page:   NewProductPage(doc, shop, store, drawer, nil, ""),
	}
}

func TestProductPageRendersProduct(t *testing.T) {
	f := newProductFixture(t, productPage)
	require.NoError(t, f.page.Init(context.Background()))

	title := f.doc.ByID("prod-title")
	assert.Equal(t, "Tee", title.Text())
	assert.False(t, title.HasClass("invisible-before-load"))
	assert.Equal(t, "cotton", f.doc.Query("#prod-desc b").Text())

	main := f.doc.ByID("prod-img-main")
	assert.Equal(t, "https://cdn.example.com/front.jpg", main.GetAttr("src"))
	assert.Equal(t, "Front", main.GetAttr("alt"))
	assert.Equal(t, "Tee", f.doc.ByID("prod-img-1").GetAttr("alt"))
	assert.Equal(t, "none", f.doc.ByID("prod-img-2").Closest(".product-header4_lightbox-link").Style("display"))
	assert.Equal(t, "", main.Closest(".product-header4_lightbox-link").Style("display"))

	assert.Equal(t, "gid://shopify/Product/42", f.shop.Calls()[0].Target)
}

func TestVariantButtonsSelectFirstAvailable(t *testing.T) {
	f := newProductFixture(t, productPage)
	ctx := context.Background()
	require.NoError(t, f.page.Init(ctx))

	container := f.doc.ByID("size-select")
	buttons := container.QueryAll("button")
	require.Len(t, buttons, 3)

	assert.True(t, buttons[0].HasClass("disabled"))
	assert.True(t, buttons[0].Disabled())
	assert.Equal(t, "button", buttons[1].GetAttr("type"))
	assert.True(t, buttons[1].HasClass("active"))
	assert.Equal(t, "gid://shopify/ProductVariant/2", container.Data("selected-variant"))
	assert.Equal(t, "gid://shopify/ProductVariant/2", f.page.SelectedVariant().ID)

	price := f.doc.ByID("prod-price")
	assert.Equal(t, "$12.50", price.Text())
	assert.False(t, price.HasClass("invisible-before-load"))

	warning := f.doc.ByID("stock-warning")
	require.NotNil(t, warning)
	assert.True(t, price.NextElementSibling().Same(warning))
	assert.Equal(t, "Only 3 left in stock!", warning.Text())
	assert.Equal(t, "flex", warning.Style("display"))

	_, err := f.doc.Dispatch(ctx, buttons[2], domain.EventClick)
	require.NoError(t, err)
	assert.False(t, buttons[1].HasClass("active"))
	assert.True(t, buttons[2].HasClass("active"))
	assert.Equal(t, "$14.00", price.Text())
	assert.Equal(t, "none", warning.Style("display"))
	assert.Len(t, f.doc.AllByID("stock-warning"), 1)

	// unavailable variants cannot be picked
	_, err = f.doc.Dispatch(ctx, buttons[0], domain.EventClick)
	require.NoError(t, err)
	assert.Equal(t, "gid://shopify/ProductVariant/3", f.page.SelectedVariant().ID)
}

func TestAddToCartAddsSelectedVariant(t *testing.T) {
	f := newProductFixture(t, productPage)
	ctx := context.Background()
	require.NoError(t, f.page.Init(ctx))

	button := f.doc.ByID("add-to-cart")
	assert.Equal(t, "Add to Cart", button.Text())
	assert.Equal(t, "Add to Cart", button.Data("original-text"))

	_, err := f.doc.Dispatch(ctx, button, domain.EventClick)
	require.NoError(t, err)

	got := f.shop.Cart(f.store.CartID())
	require.NotNil(t, got)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, "gid://shopify/ProductVariant/2", got.Lines[0].Merchandise.ID)
	assert.Equal(t, 2, got.Lines[0].Quantity)
	assert.Equal(t, []string{"render", "toggle"}, f.drawer.calls)

	assert.Equal(t, "Add to Cart", button.Text())
	assert.False(t, button.Disabled())
}

func TestAddToCartKeepsCustomLabel(t *testing.T) {
	f := newProductFixture(t, `<html><body><div id="product-embed" data-shopify-id="42">
<div id="size-select"></div><button id="add-to-cart" data-original-text="Buy now">Buy now</button>
</div></body></html>`)
	ctx := context.Background()
	require.NoError(t, f.page.Init(ctx))

	_, err := f.doc.Dispatch(ctx, f.doc.ByID("add-to-cart"), domain.EventClick)
	require.NoError(t, err)
	assert.Equal(t, "Buy now", f.doc.ByID("add-to-cart").Text())

	got := f.shop.Cart(f.store.CartID())
	require.NotNil(t, got)
	assert.Equal(t, 1, got.Lines[0].Quantity, "no quantity input means one")
}

func TestAddToCartIgnoresBadQuantity(t *testing.T) {
	for _, value := range []string{"0", "-1", "lots"} {
		t.Run(value, func(t *testing.T) {
			f := newProductFixture(t, productPage)
			ctx := context.Background()
			require.NoError(t, f.page.Init(ctx))
			f.doc.ByID("qty").SetAttr("value", value)

			_, err := f.doc.Dispatch(ctx, f.doc.ByID("add-to-cart"), domain.EventClick)
			require.NoError(t, err)
			assert.Equal(t, 0, f.shop.Count("cartLinesAdd"))
			assert.Empty(t, f.drawer.calls)
		})
	}
}

func TestAddToCartFailureStillRefreshesDrawer(t *testing.T) {
	f := newProductFixture(t, productPage)
	ctx := context.Background()
	require.NoError(t, f.page.Init(ctx))
	f.shop.Fail["cartLinesAdd"] = &errors.ErrTransport{Op: "cartLinesAdd"}

	_, err := f.doc.Dispatch(ctx, f.doc.ByID("add-to-cart"), domain.EventClick)
	require.Error(t, err)
	assert.Equal(t, errors.KindTransport, errors.KindOf(err))
	assert.Equal(t, []string{"render", "toggle"}, f.drawer.calls)
	assert.False(t, f.doc.ByID("add-to-cart").Disabled())
}

func TestProductPageWithoutEmbed(t *testing.T) {
	f := newProductFixture(t, `<html><body><h1 id="prod-title">Static</h1></body></html>`)
	require.NoError(t, f.page.Init(context.Background()))
	assert.Equal(t, "Static", f.doc.ByID("prod-title").Text())
	assert.Empty(t, f.shop.Calls())
	assert.Nil(t, f.page.Product())
}

func TestProductPageUnknownProduct(t *testing.T) {
	f := newProductFixture(t, `<html><body><div id="product-embed" data-shopify-id="7"><h1 id="prod-title">Loading</h1></div></body></html>`)
	err := f.page.Init(context.Background())
	assert.True(t, errors.IsNotFound(err))
	assert.Equal(t, "Loading", f.doc.ByID("prod-title").Text())
}
