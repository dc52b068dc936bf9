package storefront

import (
	"context"

	"github.com/jafarshop/storefront-embed/internal/domain"
	"github.com/jafarshop/storefront-embed/pkg/errors"
)

// CreateCart creates an empty remote cart. Only ID and CheckoutURL are populated.
func (c *Client) CreateCart(ctx context.Context) (*domain.Cart, error) {
	return c.mutateCart(ctx, "cartCreate", "", CartCreateMutation, nil)
}

// CartByID fetches the full cart. A cart the platform no longer knows is ErrNotFound.
func (c *Client) CartByID(ctx context.Context, cartID string) (*domain.Cart, error) {
	var result struct {
		Cart *cartNode `json:"cart"`
	}
	if err := c.run(ctx, "cart", CartQuery, map[string]interface{}{"cartId": cartID}, &result); err != nil {
		return nil, err
	}
	if result.Cart == nil {
		return nil, c.fail("cart", &errors.ErrNotFound{Resource: "cart", ID: cartID})
	}
	return result.Cart.toDomain(), nil
}

// AddLine adds quantity units of a variant. The returned cart carries only its ID.
func (c *Client) AddLine(ctx context.Context, cartID, merchandiseID string, quantity int) (*domain.Cart, error) {
	vars := map[string]interface{}{
		"cartId": cartID,
		"lines":  []CartLineInput{{MerchandiseID: merchandiseID, Quantity: quantity}},
	}
	return c.mutateCart(ctx, "cartLinesAdd", cartID, CartLinesAddMutation, vars)
}

// UpdateLine sets the quantity of a line
func (c *Client) UpdateLine(ctx context.Context, cartID, lineID string, quantity int) (*domain.Cart, error) {
	vars := map[string]interface{}{
		"cartId": cartID,
		"lines":  []CartLineUpdateInput{{ID: lineID, Quantity: quantity}},
	}
	return c.mutateCart(ctx, "cartLinesUpdate", cartID, CartLinesUpdateMutation, vars)
}

// RemoveLine removes a line from the cart
func (c *Client) RemoveLine(ctx context.Context, cartID, lineID string) (*domain.Cart, error) {
	vars := map[string]interface{}{
		"cartId":  cartID,
		"lineIds": []string{lineID},
	}
	return c.mutateCart(ctx, "cartLinesRemove", cartID, CartLinesRemoveMutation, vars)
}

// mutateCart runs a cart mutation whose payload lives under the op field
func (c *Client) mutateCart(ctx context.Context, op, cartID, mutation string, vars map[string]interface{}) (*domain.Cart, error) {
	var result map[string]cartPayload
	if err := c.run(ctx, op, mutation, vars, &result); err != nil {
		return nil, err
	}

	payload := result[op]
	if len(payload.UserErrors) > 0 {
		return nil, c.fail(op, &errors.ErrUserErrors{Op: op, Errors: payload.UserErrors})
	}
	if payload.Cart == nil {
		return nil, c.fail(op, &errors.ErrNotFound{Resource: "cart", ID: cartID})
	}
	return payload.Cart.toDomain(), nil
}
