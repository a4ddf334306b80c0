package config

import (
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config contains runtime configuration required by the service.
type Config struct {
	DBURL    string
	Port     string
	APIRoute string
	DataDir  string
}

// Load reads required values from environment variables. A .env file in
// the working directory is applied first when present, so local runs
// work without exporting anything.
func Load() (Config, error) {
	_ = godotenv.Load()

	dbURL := strings.TrimSpace(os.Getenv("DB_URL"))
	if dbURL == "" {
		// DATABASE_URL accepted for compatibility with hosted Postgres.
		dbURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}
	if dbURL == "" {
		return Config{}, errors.New("DB_URL required")
	}

	return Config{
		DBURL:    dbURL,
		Port:     envOr("PORT", "8080"),
		APIRoute: envOr("API_ROUTE", "/analytics"),
		DataDir:  envOr("DATA_DIR", "./data"),
	}, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
