package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront-embed/internal/config"
	"github.com/jafarshop/storefront-embed/internal/render"
	"github.com/jafarshop/storefront-embed/internal/storefront"
)

// Prints a product as the product page would show it.
// Usage: get-product <id>          (numeric id from data-shopify-id, or a global id)
//        get-product -handle <h>   (storefront Ajax JSON)
func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	handle := flag.String("handle", "", "fetch /products/{handle}.js instead of the GraphQL product")
	flag.Parse()
	if *handle == "" && flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: get-product <id> | get-product -handle <handle>")
		os.Exit(2)
	}

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

	if *handle != "" {
		product, err := client.AjaxProduct(ctx, *handle)
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ Failed to fetch product %q: %v\n", *handle, err)
			os.Exit(1)
		}
		out, _ := json.MarshalIndent(product, "", "  ")
		fmt.Println(string(out))
		return
	}

	id := flag.Arg(0)
	product, err := client.ProductByID(ctx, id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to fetch product %s: %v\n", id, err)
		os.Exit(1)
	}

	fmt.Printf("✅ %s (%s)\n", product.Title, product.Handle)
	fmt.Printf("   ID: %s\n", product.ID)
	fmt.Printf("   Images: %d\n\n", len(product.Images))
	fmt.Println("Variants:")
	for i, v := range product.Variants {
		status := "available"
		if !v.AvailableForSale {
			status = "sold out"
		}
		fmt.Printf("%d. %s - %s (%s)\n", i+1, v.Title, render.FormatMoney(v.Price, cfg.Storefront.Locale), status)
		fmt.Printf("   ID: %s\n", v.ID)
		if v.QuantityAvailable != nil {
			fmt.Printf("   Quantity available: %d\n", *v.QuantityAvailable)
		}
	}
	if first := product.FirstAvailableVariant(); first != nil {
		fmt.Printf("\nPreselected variant: %s\n", first.Title)
	}
}
