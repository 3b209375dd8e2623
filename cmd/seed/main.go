// Command seed provisions a local tenant with an API key and an admin
// staff account. The raw API key is printed once; only its hash is stored.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/gymops-platform/api/internal/auth"
)

func main() {
	_ = godotenv.Load()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	tenantSlug := envOrDefault("SEED_TENANT_SLUG", "local-gym")
	tenantName := envOrDefault("SEED_TENANT_NAME", "Local Dev Gym")
	adminEmail := envOrDefault("SEED_ADMIN_EMAIL", "admin@local.gym")
	adminPassword := envOrDefault("SEED_ADMIN_PASSWORD", "Admin12345!")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		log.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	apiKey, err := auth.GenerateToken()
	if err != nil {
		log.Fatalf("generate api key: %v", err)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatalf("begin tx: %v", err)
	}
	defer tx.Rollback(ctx)

	var tenantID uuid.UUID
	if err := tx.QueryRow(ctx, `
		INSERT INTO tenants (slug, name, api_key_hash)
		VALUES ($1, $2, $3)
		ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name, api_key_hash = EXCLUDED.api_key_hash
		RETURNING id
	`, tenantSlug, tenantName, auth.HashToken(apiKey)).Scan(&tenantID); err != nil {
		log.Fatalf("upsert tenant: %v", err)
	}

	passwordHash, err := auth.HashPassword(adminPassword)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO staff (tenant_id, first_name, last_name, email, role, password_hash, status, qr_payload)
		VALUES ($1, 'Local', 'Admin', $2, 'admin', $3, 'active', $4)
		ON CONFLICT DO NOTHING
	`, tenantID, adminEmail, passwordHash, uuid.NewString()); err != nil {
		log.Fatalf("insert admin staff: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		log.Fatalf("commit: %v", err)
	}

	fmt.Printf("tenant %s (%s) ready\n", tenantSlug, tenantID)
	fmt.Printf("API key (save it, shown once): %s\n", apiKey)
	fmt.Printf("admin login: %s / %s\n", adminEmail, adminPassword)
}

func envOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}
