package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront-embed/internal/config"
	"github.com/jafarshop/storefront-embed/internal/render"
	"github.com/jafarshop/storefront-embed/internal/storefront"
)

// Lists the products a collection grid would show.
// Usage: list-collections <handle> [limit]
func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: list-collections <handle> [limit]")
		os.Exit(2)
	}
	handle := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	limit := cfg.Site.CollectionPageSize
	if len(os.Args) > 2 {
		n, err := strconv.Atoi(os.Args[2])
		if err != nil || n < 1 {
			fmt.Fprintf(os.Stderr, "Invalid limit %q\n", os.Args[2])
			os.Exit(2)
		}
		limit = n
	}

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	client := storefront.NewClient(cfg.Storefront, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fmt.Printf("🔍 Fetching up to %d products from collection %q...\n\n", limit, handle)

	products, err := client.CollectionProducts(ctx, handle, limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to query collection: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Found %d product(s)\n\n", len(products))
	if len(products) == 0 {
		fmt.Println("⚠️  This collection has no products.")
		os.Exit(0)
	}

	fmt.Println("Products:")
	fmt.Println(strings.Repeat("─", 80))
	for i, p := range products {
		fmt.Printf("%d. Title: %s\n", i+1, p.Title)
		fmt.Printf("   Handle: %s\n", p.Handle)
		fmt.Printf("   ID (GID): %s\n", p.ID)
		if p.Price != nil {
			fmt.Printf("   Price: %s\n", render.FormatMoney(*p.Price, cfg.Storefront.Locale))
		}
		fmt.Printf("   Images: %d\n", len(p.ImageURLs))
		fmt.Println("")
	}
}
