package storefront

import (
	"context"
	"strings"

	"github.com/jafarshop/storefront-embed/internal/domain"
	"github.com/jafarshop/storefront-embed/pkg/errors"
)

const productGIDPrefix = "gid://shopify/Product/"

// ProductGID turns a numeric product id into its global id. Global ids pass through.
func ProductGID(id string) string {
	if strings.HasPrefix(id, "gid://") {
		return id
	}
	return productGIDPrefix + id
}

// ProductByID fetches a product by its numeric id (as found in data-shopify-id)
func (c *Client) ProductByID(ctx context.Context, id string) (*domain.Product, error) {
	gid := ProductGID(id)

	var result struct {
		Product *productNode `json:"product"`
	}
	if err := c.run(ctx, "product", ProductByIDQuery, map[string]interface{}{"id": gid}, &result); err != nil {
		return nil, err
	}
	if result.Product == nil {
		return nil, c.fail("product", &errors.ErrNotFound{Resource: "product", ID: gid})
	}
	return result.Product.toDomain(), nil
}
