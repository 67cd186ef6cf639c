package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port   string `envconfig:"PORT" default:"8080"`
	AppEnv string `envconfig:"APP_ENV" default:"development"`

	APIBaseURL    string `envconfig:"API_BASE_URL" default:"http://127.0.0.1:8000/api/"`
	APIAuthURL    string `envconfig:"API_AUTH_URL" default:"http://127.0.0.1:8000/rest-auth/"`
	MediaBaseURL  string `envconfig:"MEDIA_BASE_URL" default:"http://127.0.0.1:8000"`
	APIAuthScheme string `envconfig:"API_AUTH_SCHEME" default:"Bearer"`

	StripeSecretKey      string `envconfig:"STRIPE_SECRET_KEY"`
	StripePublishableKey string `envconfig:"STRIPE_PUBLISHABLE_KEY"`
	StripeAPIURL         string `envconfig:"STRIPE_API_URL"` // stripe-mock or tests

	SessionKey string `envconfig:"SESSION_KEY" default:"dev-insecure"`

	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads .env if present, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.AppEnv)
	return env == "production" || env == "prod"
}
