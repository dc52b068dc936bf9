package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/jafarshop/storefront-embed/internal/config"
)

// Applies the client_storage schema used by CART_STORAGE=postgres.
// Usage: migrate [up|down] [file]
func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	dbCfg := config.DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		DBName:   getEnv("DB_NAME", "storefront"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}
	dsn := dbCfg.DSN()
	if dsnEnv := os.Getenv("DATABASE_URL"); dsnEnv != "" {
		dsn = dsnEnv
	}

	direction := "up"
	if len(os.Args) > 1 {
		direction = os.Args[1]
	}
	if direction != "up" && direction != "down" {
		fmt.Fprintf(os.Stderr, "Unknown direction %q (want up or down)\n", direction)
		os.Exit(2)
	}

	migrationPath := filepath.Join("migrations", "000001_init_schema."+direction+".sql")
	if len(os.Args) > 2 {
		migrationPath = os.Args[2]
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to ping database: %v\n", err)
		os.Exit(1)
	}

	sqlBytes, err := os.ReadFile(migrationPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read migration file: %v\n", err)
		os.Exit(1)
	}

	// the file runs as one multi-statement exec
	if _, err := db.ExecContext(ctx, string(sqlBytes)); err != nil {
		if !strings.Contains(err.Error(), "already exists") &&
			!strings.Contains(err.Error(), "does not exist") {
			fmt.Fprintf(os.Stderr, "Error executing migration: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Migration already applied (some objects already exist)")
	}

	fmt.Printf("Migration %s completed successfully!\n", direction)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
