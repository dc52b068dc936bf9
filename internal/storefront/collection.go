package storefront

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"strings"

	"github.com/machinebox/graphql"

	"github.com/jafarshop/storefront-embed/internal/domain"
	"github.com/jafarshop/storefront-embed/pkg/errors"
)

// DefaultCollectionSize is the number of products fetched for a collection grid
const DefaultCollectionSize = 20

// maxStatusBody caps how much of a failed response body is kept on ErrStatus
const maxStatusBody = 4096

// statusTransport fails non-2xx responses before machinebox/graphql decodes them,
// since the library decodes the body whatever the status.
type statusTransport struct {
	base http.RoundTripper
}

func (t statusTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxStatusBody))
	return nil, &errors.ErrStatus{StatusCode: resp.StatusCode, Body: string(body)}
}

// graphQLHTTPClient copies hc with its transport wrapped in statusTransport
func graphQLHTTPClient(hc *http.Client) *http.Client {
	wrapped := *hc
	base := hc.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	wrapped.Transport = statusTransport{base: base}
	return &wrapped
}

// CollectionProducts fetches up to first product summaries of a collection by handle
func (c *Client) CollectionProducts(ctx context.Context, handle string, first int) ([]domain.CollectionProduct, error) {
	const op = "collectionByHandle"
	if first <= 0 {
		first = DefaultCollectionSize
	}

	req := graphql.NewRequest(CollectionProductsQuery)
	req.Var("handle", handle)
	req.Var("first", first)
	req.Header.Set(accessTokenHeader, c.accessToken)

	var result struct {
		CollectionByHandle *collectionNode `json:"collectionByHandle"`
	}
	if err := c.gql.Run(ctx, req, &result); err != nil {
		return nil, c.fail(op, classifyGraphQLError(op, err))
	}
	if result.CollectionByHandle == nil {
		return nil, c.fail(op, &errors.ErrNotFound{Resource: "collection", ID: handle})
	}
	return result.CollectionByHandle.toDomain(), nil
}

// classifyGraphQLError maps machinebox/graphql errors onto the failure taxonomy
func classifyGraphQLError(op string, err error) error {
	var status *errors.ErrStatus
	if stderrors.As(err, &status) {
		return &errors.ErrStatus{Op: op, StatusCode: status.StatusCode, Body: status.Body}
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "decoding response"):
		return &errors.ErrMalformed{Op: op, Err: err}
	case strings.HasPrefix(msg, "graphql: "):
		return &errors.ErrGraphQL{Op: op, Messages: []string{strings.TrimPrefix(msg, "graphql: ")}}
	default:
		return &errors.ErrTransport{Op: op, Err: err}
	}
}
