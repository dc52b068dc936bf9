package storefront

// ProductByIDQuery fetches a product with its first 4 images and all variants
const ProductByIDQuery = `
query GetProductById($id: ID!) {
  product(id: $id) {
    id
    title
    description
    descriptionHtml
    handle
    images(first: 4) {
      edges {
        node {
          url
          altText
        }
      }
    }
    variants(first: 250) {
      edges {
        node {
          id
          title
          availableForSale
          priceV2 {
            amount
            currencyCode
          }
          quantityAvailable
        }
      }
    }
  }
}
`

// CartQuery fetches a cart with up to 100 lines, subtotal and checkout URL
const CartQuery = `
query GetCart($cartId: ID!) {
  cart(id: $cartId) {
    id
    lines(first: 100) {
      edges {
        node {
          id
          quantity
          merchandise {
            ... on ProductVariant {
              id
              title
              product {
                title
              }
              image {
                url
                altText
              }
              priceV2 {
                amount
                currencyCode
              }
            }
          }
        }
      }
    }
    cost {
      subtotalAmount {
        amount
        currencyCode
      }
    }
    checkoutUrl
  }
}
`

// CollectionProductsQuery fetches the product summaries of a collection
const CollectionProductsQuery = `
query GetCollectionProducts($handle: String!, $first: Int!) {
  collectionByHandle(handle: $handle) {
    products(first: $first) {
      edges {
        node {
          id
          handle
          title
          images(first: 2) {
            edges {
              node {
                url
              }
            }
          }
          variants(first: 1) {
            edges {
              node {
                title
                priceV2 {
                  amount
                  currencyCode
                }
              }
            }
          }
        }
      }
    }
  }
}
`
