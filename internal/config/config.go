package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendLocal    = "local"
	BackendKeycloak = "keycloak"

	ProfileAuthBearer = "bearer"
	ProfileAuthNone   = "none"
)

type Keycloak struct {
	BaseURL      string
	Realm        string
	ClientID     string
	ClientSecret string
	AdminUser    string
	AdminPass    string
}

type Config struct {
	// App
	Env string // dev / staging / prod
	// HTTP
	HTTPAddr string
	// Auth / Security
	JWTSecret      string
	JWTIssuer      string
	AccessTokenTTL time.Duration

	// Identity backend selection
	AuthBackend string // local / keycloak
	ProfileAuth string // bearer / none
	Keycloak    Keycloak

	// Infrastructure
	DBAddr         string
	RedisAddr      string
	RabbitURL      string
	RabbitExchange string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

func (c *Config) IsDev() bool { return c.Env == "dev" }

// Load reads configuration from the environment, with a .env overlay
// for local runs. Required values fail fast so the gateway never starts
// half-configured.
func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := &Config{
		Env:         getEnv("ENV", "dev"),
		HTTPAddr:    getEnv("HTTP_ADDR", ":8080"),
		JWTIssuer:   getEnv("JWT_ISSUER", "auth-gateway"),
		AuthBackend: getEnv("AUTH_BACKEND", BackendLocal),
		ProfileAuth: getEnv("PROFILE_AUTH", ProfileAuthBearer),
	}

	// required values
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("missing required env var: JWT_SECRET")
	}

	switch cfg.AuthBackend {
	case BackendLocal, BackendKeycloak:
	default:
		return nil, fmt.Errorf("invalid AUTH_BACKEND: %q (want local or keycloak)", cfg.AuthBackend)
	}

	switch cfg.ProfileAuth {
	case ProfileAuthBearer, ProfileAuthNone:
	default:
		return nil, fmt.Errorf("invalid PROFILE_AUTH: %q (want bearer or none)", cfg.ProfileAuth)
	}

	ttl, err := getDuration("ACCESS_TOKEN_TTL", 15*time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.AccessTokenTTL = ttl

	// Backend-specific requirements. The local backend cannot operate
	// without Postgres; the keycloak backend cannot operate without the
	// provider coordinates.
	switch cfg.AuthBackend {
	case BackendLocal:
		cfg.DBAddr = os.Getenv("DB_ADDR")
		if cfg.DBAddr == "" {
			return nil, fmt.Errorf("missing required env var: DB_ADDR (local backend)")
		}
	case BackendKeycloak:
		cfg.Keycloak = Keycloak{
			BaseURL:      os.Getenv("KEYCLOAK_BASE_URL"),
			Realm:        os.Getenv("KEYCLOAK_REALM"),
			ClientID:     os.Getenv("KEYCLOAK_CLIENT_ID"),
			ClientSecret: os.Getenv("KEYCLOAK_CLIENT_SECRET"),
			AdminUser:    os.Getenv("KEYCLOAK_ADMIN_USER"),
			AdminPass:    os.Getenv("KEYCLOAK_ADMIN_PASSWORD"),
		}
		for key, val := range map[string]string{
			"KEYCLOAK_BASE_URL":       cfg.Keycloak.BaseURL,
			"KEYCLOAK_REALM":          cfg.Keycloak.Realm,
			"KEYCLOAK_CLIENT_ID":      cfg.Keycloak.ClientID,
			"KEYCLOAK_ADMIN_USER":     cfg.Keycloak.AdminUser,
			"KEYCLOAK_ADMIN_PASSWORD": cfg.Keycloak.AdminPass,
		} {
			if val == "" {
				return nil, fmt.Errorf("missing required env var: %s (keycloak backend)", key)
			}
		}
	}

	// optional infrastructure
	cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	cfg.RabbitURL = os.Getenv("RABBIT_URL")
	cfg.RabbitExchange = getEnv("RABBIT_EXCHANGE", "ecommerce.events")

	rt, err := getDuration("HTTP_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.HTTPReadTimeout = rt

	wt, err := getDuration("HTTP_WRITE_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.HTTPWriteTimeout = wt

	it, err := getDuration("HTTP_IDLE_TIMEOUT", time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.HTTPIdleTimeout = it

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %q: %w", key, v, err)
	}
	return d, nil
}
