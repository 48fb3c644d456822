// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds everything the server and CLI need to run.
type Config struct {
	Port      int
	DBURI     string
	DBName    string
	JWTSecret string
	UploadDir string
	DevMode   bool
}

// Load reads configuration from environment variables, with a .env file
// applied first if one exists in the working directory. JWT_SECRET has no
// default and must be set.
func Load() (*Config, error) {
	// Ignore a missing .env; real env vars always win.
	_ = godotenv.Load()

	cfg := &Config{
		Port:      8080,
		DBURI:     getEnv("DB_URI", "mongodb://localhost:27017"),
		DBName:    getEnv("DB_NAME", "six-cities"),
		JWTSecret: os.Getenv("JWT_SECRET"),
		UploadDir: getEnv("UPLOAD_DIR", "uploads"),
		DevMode:   os.Getenv("DEV_MODE") == "true",
	}

	if port := os.Getenv("PORT"); port != "" {
		if _, err := fmt.Sscanf(port, "%d", &cfg.Port); err != nil {
			return nil, fmt.Errorf("parsing PORT %q: %w", port, err)
		}
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
