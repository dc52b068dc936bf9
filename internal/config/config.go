package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/jafarshop/storefront-embed/internal/domain"
)

type Config struct {
	Port        string
	Environment string
	Database    DatabaseConfig
	Storefront  StorefrontConfig
	Redis       RedisConfig
	Site        SiteConfig
	CartStorage domain.StorageBackend // CART_STORAGE: where sf_cart_id lives for the HTTP surface
	LogLevel    string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// StorefrontConfig is used to call the Storefront GraphQL API and the Ajax product endpoint
type StorefrontConfig struct {
	ShopDomain  string
	AccessToken string // public storefront token, not an Admin API token
	APIVersion  string
	Locale      string
	StoreURL    string // e.g. https://shop.example.com; defaults to https://{ShopDomain}
}

type RedisConfig struct {
	URL string // e.g. redis://localhost:6379/0
}

// SiteConfig describes the exported host pages served by the HTTP surface
type SiteConfig struct {
	Dir                string
	CollectionPageSize int
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("SHOPIFY_API_VERSION", "2025-01")
	viper.SetDefault("SHOPIFY_LOCALE", "en-US")
	viper.SetDefault("SITE_DIR", "./site")
	viper.SetDefault("COLLECTION_PAGE_SIZE", "20")
	viper.SetDefault("CART_STORAGE", "cookie")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	shopDomain := NormalizeDomain(getEnvOrViper("SHOPIFY_SHOP_DOMAIN", ""))

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8080"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		Database: DatabaseConfig{
			Host:     getEnvOrViper("DB_HOST", "localhost"),
			Port:     getEnvOrViper("DB_PORT", "5432"),
			User:     getEnvOrViper("DB_USER", "postgres"),
			Password: getEnvOrViper("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrViper("DB_NAME", "storefront"),
			SSLMode:  getEnvOrViper("DB_SSLMODE", "disable"),
		},
		Storefront: StorefrontConfig{
			ShopDomain:  shopDomain,
			AccessToken: strings.TrimSpace(getEnvOrViper("SHOPIFY_STOREFRONT_ACCESS_TOKEN", "")),
			APIVersion:  getEnvOrViper("SHOPIFY_API_VERSION", "2025-01"),
			Locale:      getEnvOrViper("SHOPIFY_LOCALE", "en-US"),
			StoreURL:    strings.TrimSuffix(strings.TrimSpace(getEnvOrViper("STORE_URL", "")), "/"),
		},
		Redis: RedisConfig{
			URL: strings.TrimSpace(getEnvOrViper("REDIS_URL", "")),
		},
		Site: SiteConfig{
			Dir: getEnvOrViper("SITE_DIR", "./site"),
		},
		CartStorage: domain.StorageBackend(strings.ToLower(getEnvOrViper("CART_STORAGE", "cookie"))),
		LogLevel:    getEnvOrViper("LOG_LEVEL", "info"),
	}

	if cfg.Storefront.StoreURL == "" && shopDomain != "" {
		cfg.Storefront.StoreURL = "https://" + shopDomain
	}

	pageSize, err := strconv.Atoi(getEnvOrViper("COLLECTION_PAGE_SIZE", "20"))
	if err != nil || pageSize <= 0 {
		return nil, fmt.Errorf("COLLECTION_PAGE_SIZE must be a positive integer")
	}
	cfg.Site.CollectionPageSize = pageSize

	// Validate required fields
	if cfg.Storefront.ShopDomain == "" {
		return nil, fmt.Errorf("SHOPIFY_SHOP_DOMAIN is required")
	}
	if cfg.Storefront.AccessToken == "" {
		return nil, fmt.Errorf("SHOPIFY_STOREFRONT_ACCESS_TOKEN is required")
	}
	if !cfg.CartStorage.IsValid() {
		return nil, fmt.Errorf("CART_STORAGE must be one of cookie, memory, redis, postgres; got %q", cfg.CartStorage)
	}
	if cfg.CartStorage == domain.StorageRedis && cfg.Redis.URL == "" {
		return nil, fmt.Errorf("REDIS_URL is required when CART_STORAGE=redis")
	}

	return cfg, nil
}

// NormalizeDomain removes https://, http:// and trailing slashes
func NormalizeDomain(domain string) string {
	domain = strings.TrimSpace(domain)
	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimPrefix(domain, "http://")
	return strings.TrimSuffix(domain, "/")
}

// DSN returns the lib/pq connection string
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}
