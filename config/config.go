package config

import (
	"log"
	"os"
	"strings"
)

type Config struct {
	AllowedOrigins []string
	PostgresURL    string
	JWTKey         string
	ListenAddr     string
	Debug          bool
}

// Load reads configuration from the environment. Missing required
// variables are fatal: the server cannot run half-configured.
func Load() Config {
	cfg := Config{
		ListenAddr: ":4000",
		Debug:      os.Getenv("DEBUG") == "true",
	}

	origins, exists := os.LookupEnv("ALLOWED_ORIGINS")
	if !exists {
		log.Fatal("Missing allowed origins")
	}
	cfg.AllowedOrigins = strings.Split(origins, ",")

	cfg.PostgresURL, exists = os.LookupEnv("POSTGRES_URL")
	if !exists {
		log.Fatal("Missing postgres url")
	}

	cfg.JWTKey, exists = os.LookupEnv("JWT_KEY")
	if !exists {
		log.Fatal("Missing jwt signing key")
	}

	if port, exists := os.LookupEnv("PORT"); exists {
		cfg.ListenAddr = ":" + port
	}

	return cfg
}
