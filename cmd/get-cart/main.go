package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront-embed/internal/config"
	"github.com/jafarshop/storefront-embed/internal/render"
	"github.com/jafarshop/storefront-embed/internal/storefront"
	"github.com/jafarshop/storefront-embed/pkg/errors"
)

// Prints a cart by its identifier, e.g. the value of the sf_cart_id cookie.
// Usage: get-cart <cart-id>
func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: get-cart <cart-id>")
		os.Exit(2)
	}
	cartID := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	client := storefront.NewClient(cfg.Storefront, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cart, err := client.CartByID(ctx, cartID)
	if errors.IsNotFound(err) {
		fmt.Printf("⚠️  Cart %s no longer exists (expired or completed)\n", cartID)
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to fetch cart: %v\n", err)
		os.Exit(1)
	}

	locale := cfg.Storefront.Locale
	fmt.Printf("✅ Cart %s: %d item(s)\n\n", cart.ID, cart.ItemCount())
	fmt.Println(strings.Repeat("─", 80))
	for i, l := range cart.Lines {
		fmt.Printf("%d. %s / %s x %d = %s\n", i+1, l.Merchandise.ProductTitle, l.Merchandise.Title,
			l.Quantity, render.FormatMoney(l.Total(), locale))
		fmt.Printf("   Line ID: %s\n", l.ID)
	}
	fmt.Println(strings.Repeat("─", 80))
	fmt.Printf("Subtotal: %s\n", render.FormatMoney(cart.Subtotal, locale))
	fmt.Printf("Checkout: %s\n", cart.CheckoutURL)
}
