package main

import (
	"os"

	"github.com/joho/godotenv"
)

// loadEnvFiles reads .env files when present. godotenv never overrides
// variables already set by the runtime, so container environments win.
func loadEnvFiles() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

// migrationsDir resolves the goose migrations directory, defaulting to the
// repo's db/migrations.
func migrationsDir() string {
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return v
	}
	return "db/migrations"
}
