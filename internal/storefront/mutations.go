package storefront

// CartCreateMutation creates an empty cart
const CartCreateMutation = `
mutation CartCreate {
  cartCreate {
    cart {
      id
      checkoutUrl
    }
    userErrors {
      field
      message
    }
  }
}
`

// CartLinesAddMutation adds lines to a cart
const CartLinesAddMutation = `
mutation CartLinesAdd($cartId: ID!, $lines: [CartLineInput!]!) {
  cartLinesAdd(cartId: $cartId, lines: $lines) {
    cart {
      id
    }
    userErrors {
      field
      message
    }
  }
}
`

// CartLinesUpdateMutation sets the quantity of existing lines
const CartLinesUpdateMutation = `
mutation CartLinesUpdate($cartId: ID!, $lines: [CartLineUpdateInput!]!) {
  cartLinesUpdate(cartId: $cartId, lines: $lines) {
    cart {
      id
    }
    userErrors {
      field
      message
    }
  }
}
`

// CartLinesRemoveMutation removes lines from a cart
const CartLinesRemoveMutation = `
mutation CartLinesRemove($cartId: ID!, $lineIds: [ID!]!) {
  cartLinesRemove(cartId: $cartId, lineIds: $lineIds) {
    cart {
      id
    }
    userErrors {
      field
      message
    }
  }
}
`

// CartLineInput represents a line to add
type CartLineInput struct {
	MerchandiseID string `json:"merchandiseId"`
	Quantity      int    `json:"quantity"`
}

// CartLineUpdateInput represents a quantity change for an existing line
type CartLineUpdateInput struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}
