package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront-embed/internal/config"
	"github.com/jafarshop/storefront-embed/internal/storefront"
)

// Simple test query
const TestQuery = `
query {
  shop {
    name
    primaryDomain { url }
  }
}
`

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	token := cfg.Storefront.AccessToken
	fmt.Printf("Testing Storefront API connection...\n\n")
	fmt.Printf("Shop Domain: %s\n", cfg.Storefront.ShopDomain)
	fmt.Printf("API Version: %s\n", cfg.Storefront.APIVersion)
	fmt.Printf("Access Token: %s...%s\n", token[:min(6, len(token))], token[max(0, len(token)-4):])
	fmt.Println()

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	client := storefront.NewClient(cfg.Storefront, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := client.Execute(ctx, "shop", TestQuery, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Connection failed: %v\n\n", err)
		fmt.Println("Please check:")
		fmt.Println("  1. SHOPIFY_SHOP_DOMAIN format: should be 'store-name.myshopify.com' (no https://)")
		fmt.Println("  2. SHOPIFY_STOREFRONT_ACCESS_TOKEN: the public Storefront API token of a headless channel")
		fmt.Println("  3. SHOPIFY_API_VERSION: a supported version such as 2025-01")
		os.Exit(1)
	}

	fmt.Println("✅ Connection successful!")
	fmt.Printf("Endpoint: %s\n", client.Endpoint())
	fmt.Printf("Response: %s\n", string(resp.Data))
}
