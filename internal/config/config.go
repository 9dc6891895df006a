package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Storage drivers accepted by STORE_DRIVER.
const (
	DriverJSON     = "json"
	DriverPostgres = "postgres"
)

// Config holds runtime configuration sourced from env vars and an optional
// YAML file named by CONFIG_FILE.
type Config struct {
	Port             string
	StoreDriver      string
	DataDir          string
	DatabaseURL      string
	JWTSecret        string
	JWTIssuer        string
	JWTTTL           time.Duration
	AuthRequired     bool
	CORSOrigins      []string
	LogLevel         string
	LogFormat        string
	WelcomeDeposit   decimal.Decimal
	DefaultCardLimit decimal.Decimal
	PixMerchantCity  string
}

var defaults = map[string]any{
	"PORT":                 "8080",
	"STORE_DRIVER":         DriverJSON,
	"DATA_DIR":             "./data",
	"JWT_ISSUER":           "telecon-hub",
	"JWT_TTL_MINUTES":      60,
	"AUTH_REQUIRED":        false,
	"CORS_ALLOWED_ORIGINS": "*",
	"LOG_LEVEL":            "info",
	"LOG_FORMAT":           "json",
	"WELCOME_DEPOSIT":      "500",
	"DEFAULT_CARD_LIMIT":   "1000",
	"PIX_MERCHANT_CITY":    "SAO PAULO",
}

// Load reads configuration from the environment and performs minimal validation.
func Load() (Config, error) {
	v, err := newViper()
	if err != nil {
		return Config{}, err
	}
	return fromViper(v, true)
}

// LoadStorage is Load for tools that only open the store; JWT settings are
// not required.
func LoadStorage() (Config, error) {
	v, err := newViper()
	if err != nil {
		return Config{}, err
	}
	return fromViper(v, false)
}

func newViper() (*viper.Viper, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()
	if path := strings.TrimSpace(v.GetString("CONFIG_FILE")); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}
	return v, nil
}

func fromViper(v *viper.Viper, requireJWT bool) (Config, error) {
	cfg := Config{
		Port:            fallback(v.GetString("PORT"), "8080"),
		StoreDriver:     strings.ToLower(fallback(v.GetString("STORE_DRIVER"), DriverJSON)),
		DataDir:         fallback(v.GetString("DATA_DIR"), "./data"),
		DatabaseURL:     strings.TrimSpace(v.GetString("DATABASE_URL")),
		JWTSecret:       strings.TrimSpace(v.GetString("JWT_SECRET")),
		JWTIssuer:       fallback(v.GetString("JWT_ISSUER"), "telecon-hub"),
		AuthRequired:    v.GetBool("AUTH_REQUIRED"),
		CORSOrigins:     parseCSV(fallback(v.GetString("CORS_ALLOWED_ORIGINS"), "*")),
		LogLevel:        strings.ToLower(fallback(v.GetString("LOG_LEVEL"), "info")),
		LogFormat:       strings.ToLower(fallback(v.GetString("LOG_FORMAT"), "json")),
		PixMerchantCity: fallback(v.GetString("PIX_MERCHANT_CITY"), "SAO PAULO"),
	}

	if ttlMinutes := v.GetInt("JWT_TTL_MINUTES"); ttlMinutes > 0 {
		cfg.JWTTTL = time.Duration(ttlMinutes) * time.Minute
	} else {
		cfg.JWTTTL = 60 * time.Minute
	}
	cfg.WelcomeDeposit = money(v.GetString("WELCOME_DEPOSIT"), decimal.NewFromInt(500))
	cfg.DefaultCardLimit = money(v.GetString("DEFAULT_CARD_LIMIT"), decimal.NewFromInt(1000))

	switch cfg.StoreDriver {
	case DriverJSON:
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, errors.New("DATABASE_URL is required when STORE_DRIVER=postgres")
		}
	default:
		return Config{}, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
	if requireJWT && cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}

	return cfg, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func money(value string, def decimal.Decimal) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil || d.IsNegative() {
		return def
	}
	return d
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
