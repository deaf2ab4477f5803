// Package config loads runtime settings from an optional .env file and the
// process environment. Defaults are suitable for local development except the
// signing secret, which has no default on purpose.
package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// ErrMissingSecret is returned when JWTSECRET is unset or empty. Serving
// without it would mean issuing tokens nobody can verify after a restart.
var ErrMissingSecret = errors.New("config: JWTSECRET is not set")

type Config struct {
	Addr        string
	DBPath      string
	TemplateDir string
	JWTSecret   string
	BcryptCost  int
	TokenTTL    time.Duration
}

// Load builds a Config from defaults, an optional .env file, and the
// environment. A missing .env file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Addr:        ":3000",
		DBPath:      "ourapp.db",
		TemplateDir: "web/templates",
		BcryptCost:  bcrypt.DefaultCost,
		TokenTTL:    24 * time.Hour,
	}

	if port := os.Getenv("PORT"); port != "" {
		cfg.Addr = ":" + port
	}
	if path := os.Getenv("DB_PATH"); path != "" {
		cfg.DBPath = path
	}
	if dir := os.Getenv("TEMPLATE_DIR"); dir != "" {
		cfg.TemplateDir = dir
	}
	if cost := os.Getenv("BCRYPT_COST"); cost != "" {
		n, err := strconv.Atoi(cost)
		if err != nil {
			return nil, errors.New("config: BCRYPT_COST is not a number")
		}
		cfg.BcryptCost = n
	}
	if ttl := os.Getenv("TOKEN_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return nil, errors.New("config: TOKEN_TTL is not a duration")
		}
		cfg.TokenTTL = d
	}

	cfg.JWTSecret = os.Getenv("JWTSECRET")
	if cfg.JWTSecret == "" {
		return nil, ErrMissingSecret
	}
	return cfg, nil
}
