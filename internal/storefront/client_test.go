package storefront

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront-embed/internal/config"
	"github.com/jafarshop/storefront-embed/pkg/errors"
)

type capturedRequest struct {
	Header http.Header
	Body   GraphQLRequest
}

// newTestClient serves every GraphQL request with respond and records what was sent
func newTestClient(t *testing.T, respond func(req GraphQLRequest) (int, string)) (*Client, *[]capturedRequest) {
	t.Helper()
	var captured []capturedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body GraphQLRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		captured = append(captured, capturedRequest{Header: r.Header.Clone(), Body: body})
		status, payload := respond(body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(payload))
	}))
	t.Cleanup(srv.Close)

	cfg := config.StorefrontConfig{ShopDomain: "test.myshopify.com", AccessToken: "public-token", APIVersion: "2025-01"}
	return NewClient(cfg, zap.NewNop(), WithEndpoint(srv.URL), WithStoreURL(srv.URL)), &captured
}

func TestNewClientNormalizesDomain(t *testing.T) {
	c := NewClient(config.StorefrontConfig{ShopDomain: "https://industry-fools.myshopify.com/", APIVersion: "2025-01"}, nil)
	assert.Equal(t, "https://industry-fools.myshopify.com/api/2025-01/graphql.json", c.Endpoint())
	assert.Equal(t, "https://industry-fools.myshopify.com", c.storeURL)
	assert.Equal(t, "en-US", c.Locale())
}

func TestExecuteSendsTokenAndVariables(t *testing.T) {
	c, captured := newTestClient(t, func(GraphQLRequest) (int, string) {
		return http.StatusOK, `{"data":{"cart":{"id":"gid://shopify/Cart/1"}}}`
	})

	_, err := c.Execute(context.Background(), "cart", CartQuery, map[string]interface{}{"cartId": "gid://shopify/Cart/1"})
	require.NoError(t, err)

	require.Len(t, *captured, 1)
	got := (*captured)[0]
	assert.Equal(t, "public-token", got.Header.Get("X-Shopify-Storefront-Access-Token"))
	assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
	assert.Equal(t, CartQuery, got.Body.Query)
	assert.Equal(t, "gid://shopify/Cart/1", got.Body.Variables["cartId"])
}

func TestExecuteFailureKinds(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		payload string
		want    errors.Kind
	}{
		{"non-2xx status", http.StatusBadGateway, `upstream down`, errors.KindStatus},
		{"malformed body", http.StatusOK, `not json`, errors.KindMalformed},
		{"graphql errors", http.StatusOK, `{"data":null,"errors":[{"message":"Throttled"},{"message":"again"}]}`, errors.KindGraphQL},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(GraphQLRequest) (int, string) { return tt.status, tt.payload })

			cart, err := c.CartByID(context.Background(), "gid://shopify/Cart/1")
			assert.Nil(t, cart)
			require.Error(t, err)
			assert.Equal(t, tt.want, errors.KindOf(err))
		})
	}
}

func TestExecuteGraphQLErrorKeepsMessages(t *testing.T) {
	c, _ := newTestClient(t, func(GraphQLRequest) (int, string) {
		return http.StatusOK, `{"errors":[{"message":"Throttled"}]}`
	})
	_, err := c.ProductByID(context.Background(), "1")

	var gqlErr *errors.ErrGraphQL
	require.ErrorAs(t, err, &gqlErr)
	assert.Equal(t, []string{"Throttled"}, gqlErr.Messages)
}

func TestExecuteTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	endpoint := srv.URL
	srv.Close()

	c := NewClient(config.StorefrontConfig{ShopDomain: "test.myshopify.com", APIVersion: "2025-01"}, nil, WithEndpoint(endpoint))
	_, err := c.CreateCart(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.KindTransport, errors.KindOf(err))
}

func TestExecuteHonorsContextCancellation(t *testing.T) {
	c, _ := newTestClient(t, func(GraphQLRequest) (int, string) { return http.StatusOK, `{"data":{}}` })
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.CartByID(ctx, "gid://shopify/Cart/1")
	assert.Equal(t, errors.KindTransport, errors.KindOf(err))
	assert.ErrorIs(t, err, context.Canceled)
}
