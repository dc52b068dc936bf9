package storefront

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/jafarshop/storefront-embed/internal/domain"
	"github.com/jafarshop/storefront-embed/pkg/errors"
)

// AjaxProduct fetches the storefront's Ajax product JSON (GET /{locale}/products/{handle}.js)
func (c *Client) AjaxProduct(ctx context.Context, handle string) (*domain.AjaxProduct, error) {
	const op = "ajaxProduct"

	u := c.storeURL + "/" + url.PathEscape(c.locale) + "/products/" + url.PathEscape(handle) + ".js"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, c.fail(op, &errors.ErrTransport{Op: op, Err: err})
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.fail(op, &errors.ErrTransport{Op: op, Err: err})
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.fail(op, &errors.ErrTransport{Op: op, Err: err})
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, c.fail(op, &errors.ErrNotFound{Resource: "product", ID: handle})
	}
	if resp.StatusCode != http.StatusOK {
		return nil, c.fail(op, &errors.ErrStatus{Op: op, StatusCode: resp.StatusCode, Body: string(body)})
	}

	var product domain.AjaxProduct
	if err := json.Unmarshal(body, &product); err != nil {
		return nil, c.fail(op, &errors.ErrMalformed{Op: op, Err: err})
	}
	return &product, nil
}
