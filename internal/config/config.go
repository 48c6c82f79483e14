package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	defaultAccessTTL      = "10m"
	defaultRefreshTTL     = "24h"
	defaultHTTPAddr       = ":8080"
	defaultCookieSecure   = "true"
	defaultCookieSameSite = "None"
	defaultCookiePath     = "/"
	defaultIssuer         = "storefront"
	defaultAudience       = "storefront-client"
	defaultGoogleTokenURL = "https://oauth2.googleapis.com/token"
	defaultGoogleCertsURL = "https://www.googleapis.com/oauth2/v3/certs"
	defaultRedirectURI    = "http://localhost:5173"

	// base64 of "change-me-signing-key-change-me!" — dev only
	defaultSigningKey = "Y2hhbmdlLW1lLXNpZ25pbmcta2V5LWNoYW5nZS1tZSE="
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	DatabaseURL string
	RedisAddr   string

	JWT    JWTConfig
	Google GoogleConfig
	Cookie CookieConfig

	RefreshTTL time.Duration
}

type JWTConfig struct {
	SigningKey []byte
	Issuer     string
	Audience   string
	AccessTTL  time.Duration
}

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	CertsURL     string
	RedirectURI  string
}

type CookieConfig struct {
	Secure   bool
	SameSite string
	Path     string
}

func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.HTTPAddr = strings.TrimSpace(getEnv("HTTP_ADDR", defaultHTTPAddr))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", "storefront.db"))
	cfg.RedisAddr = strings.TrimSpace(os.Getenv("REDIS_ADDR"))

	rawKey := strings.TrimSpace(getEnv("JWT_SIGNING_KEY", defaultSigningKey))
	key, err := base64.StdEncoding.DecodeString(rawKey)
	if err != nil {
		return nil, fmt.Errorf("JWT_SIGNING_KEY must be base64: %w", err)
	}
	cfg.JWT.SigningKey = key
	cfg.JWT.Issuer = strings.TrimSpace(getEnv("JWT_ISSUER", defaultIssuer))
	cfg.JWT.Audience = strings.TrimSpace(getEnv("JWT_AUDIENCE", defaultAudience))

	cfg.JWT.AccessTTL, err = parseDurationEnv("JWT_ACCESS_TTL", defaultAccessTTL)
	if err != nil {
		return nil, err
	}
	cfg.RefreshTTL, err = parseDurationEnv("REFRESH_TTL", defaultRefreshTTL)
	if err != nil {
		return nil, err
	}

	cfg.Google.ClientID = strings.TrimSpace(os.Getenv("GOOGLE_CLIENT_ID"))
	cfg.Google.ClientSecret = strings.TrimSpace(os.Getenv("GOOGLE_CLIENT_SECRET"))
	cfg.Google.TokenURL = strings.TrimSpace(getEnv("GOOGLE_TOKEN_URL", defaultGoogleTokenURL))
	cfg.Google.CertsURL = strings.TrimSpace(getEnv("GOOGLE_CERTS_URL", defaultGoogleCertsURL))
	cfg.Google.RedirectURI = strings.TrimSpace(getEnv("GOOGLE_REDIRECT_URI", defaultRedirectURI))

	cfg.Cookie.Secure = parseBoolEnv("COOKIE_SECURE", defaultCookieSecure)
	cfg.Cookie.SameSite = strings.TrimSpace(getEnv("COOKIE_SAMESITE", defaultCookieSameSite))
	cfg.Cookie.Path = strings.TrimSpace(getEnv("COOKIE_PATH", defaultCookiePath))

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if len(cfg.JWT.SigningKey) == 0 {
		return fmt.Errorf("JWT_SIGNING_KEY must not be empty")
	}
	if cfg.JWT.Issuer == "" || cfg.JWT.Audience == "" {
		return fmt.Errorf("JWT_ISSUER and JWT_AUDIENCE must not be empty")
	}
	if cfg.JWT.AccessTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be > 0")
	}
	if cfg.RefreshTTL <= 0 {
		return fmt.Errorf("REFRESH_TTL must be > 0")
	}
	if cfg.Cookie.Path == "" {
		return fmt.Errorf("COOKIE_PATH must not be empty")
	}
	sameSite := strings.ToLower(cfg.Cookie.SameSite)
	if sameSite != "lax" && sameSite != "none" && sameSite != "strict" {
		return fmt.Errorf("COOKIE_SAMESITE must be one of: Lax, None, Strict")
	}
	if sameSite == "none" && !cfg.Cookie.Secure {
		return fmt.Errorf("COOKIE_SECURE must be true when COOKIE_SAMESITE=None")
	}

	if isProdLike(cfg.AppEnv) {
		if base64.StdEncoding.EncodeToString(cfg.JWT.SigningKey) == defaultSigningKey {
			return fmt.Errorf("in prod/release JWT_SIGNING_KEY must be set and not default")
		}
		if !cfg.Cookie.Secure {
			return fmt.Errorf("in prod/release COOKIE_SECURE must be true")
		}
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
