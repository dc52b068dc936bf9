package storefront

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jafarshop/storefront-embed/pkg/errors"
)

const collectionResponse = `{"data":{"collectionByHandle":{"products":{"edges":[
  {"node":{"id":"gid://shopify/Product/1","handle":"tee","title":"Tee",
    "images":{"edges":[{"node":{"url":"https://cdn.example.com/a.jpg"}},{"node":{"url":"https://cdn.example.com/b.jpg"}}]},
    "variants":{"edges":[{"node":{"title":"S","priceV2":{"amount":"12.5","currencyCode":"USD"}}}]}}},
  {"node":{"id":"gid://shopify/Product/2","handle":"bare","title":"Bare",
    "images":{"edges":[]},"variants":{"edges":[]}}}
]}}}}`

func TestCollectionProducts(t *testing.T) {
	c, captured := newTestClient(t, func(GraphQLRequest) (int, string) { return http.StatusOK, collectionResponse })

	products, err := c.CollectionProducts(context.Background(), "summer", 0)
	require.NoError(t, err)

	got := (*captured)[0]
	assert.Equal(t, "public-token", got.Header.Get("X-Shopify-Storefront-Access-Token"))
	assert.Equal(t, "summer", got.Body.Variables["handle"])
	assert.Equal(t, float64(DefaultCollectionSize), got.Body.Variables["first"])

	require.Len(t, products, 2)
	assert.Equal(t, "tee", products[0].Handle)
	assert.Equal(t, []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"}, products[0].ImageURLs)
	require.NotNil(t, products[0].Price)
	assert.Equal(t, "12.5", products[0].Price.Amount.String())
	assert.Equal(t, "S", products[0].VariantTitle)

	assert.Empty(t, products[1].ImageURLs)
	assert.Nil(t, products[1].Price)
}

func TestCollectionProductsFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		payload string
		want    errors.Kind
	}{
		{"unknown collection", http.StatusOK, `{"data":{"collectionByHandle":null}}`, errors.KindNotFound},
		{"graphql error", http.StatusOK, `{"errors":[{"message":"Throttled"}]}`, errors.KindGraphQL},
		{"non-200", http.StatusServiceUnavailable, `unavailable`, errors.KindStatus},
		{"non-200 with null collection", http.StatusServiceUnavailable, `{"data":{"collectionByHandle":null}}`, errors.KindStatus},
		{"non-200 with json data", http.StatusServiceUnavailable, `{"data":{"collectionByHandle":{"products":{"edges":[]}}}}`, errors.KindStatus},
		{"malformed", http.StatusOK, `<html>`, errors.KindMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(GraphQLRequest) (int, string) { return tt.status, tt.payload })

			products, err := c.CollectionProducts(context.Background(), "summer", 20)
			assert.Nil(t, products)
			assert.Equal(t, tt.want, errors.KindOf(err))
		})
	}
}

func TestClassifyGraphQLErrorKeepsStatusCode(t *testing.T) {
	err := classifyGraphQLError("collectionByHandle", assert.AnError)
	assert.Equal(t, errors.KindTransport, errors.KindOf(err))

	c, _ := newTestClient(t, func(GraphQLRequest) (int, string) { return http.StatusServiceUnavailable, `unavailable` })
	_, err = c.CollectionProducts(context.Background(), "summer", 20)

	var status *errors.ErrStatus
	require.ErrorAs(t, err, &status)
	assert.Equal(t, "collectionByHandle", status.Op)
	assert.Equal(t, http.StatusServiceUnavailable, status.StatusCode)
	assert.Equal(t, "unavailable", status.Body)
}

func TestCollectionProductsSucceedsAfterStatusFailure(t *testing.T) {
	calls := 0
	c, _ := newTestClient(t, func(GraphQLRequest) (int, string) {
		calls++
		if calls == 1 {
			return http.StatusBadGateway, `{"data":{"collectionByHandle":{"products":{"edges":[]}}}}`
		}
		return http.StatusOK, collectionResponse
	})

	_, err := c.CollectionProducts(context.Background(), "summer", 20)
	assert.Equal(t, errors.KindStatus, errors.KindOf(err))

	products, err := c.CollectionProducts(context.Background(), "summer", 20)
	require.NoError(t, err)
	assert.Len(t, products, 2)
}

func TestAjaxProduct(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		if r.URL.Path != "/en-US/products/tee.js" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"id":42,"title":"Tee","handle":"tee","vendor":"Fools","variants":[{"id":7,"title":"S","price":1250,"available":true}]}`))
	}))
	defer srv.Close()

	c, _ := newTestClient(t, func(GraphQLRequest) (int, string) { return http.StatusOK, `{}` })
	c.storeURL = srv.URL

	product, err := c.AjaxProduct(context.Background(), "tee")
	require.NoError(t, err)
	assert.Equal(t, "/en-US/products/tee.js", path)
	assert.Equal(t, int64(42), product.ID)
	require.Len(t, product.Variants, 1)
	assert.Equal(t, int64(1250), product.Variants[0].Price)

	_, err = c.AjaxProduct(context.Background(), "missing")
	assert.True(t, errors.IsNotFound(err))
}
