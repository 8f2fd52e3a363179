package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Backend   BackendConfig
	Storage   StorageConfig
	Database  DatabaseConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Printer   PrinterConfig
	Store     StoreConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

// BackendConfig addresses the retail backend
type BackendConfig struct {
	URL     string
	Timeout time.Duration
}

// StorageConfig locates the session file. Secret, when set, encrypts it.
type StorageConfig struct {
	Path          string
	SessionSecret string
}

// DatabaseConfig points at the optional PostgreSQL store of idempotency keys. An empty
// URL keeps them in memory.
type DatabaseConfig struct {
	URL          string
	MaxOpenConns int
	Debug        bool
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

type PrinterConfig struct {
	Type    string
	USBPath string
	Address string
	Width   int
}

// StoreConfig is the header printed on tickets
type StoreConfig struct {
	Name    string
	Address string
	Phone   string
}

// Load reads .env and the environment. A missing .env file is normal in production and
// only logged.
func Load(logger *slog.Logger) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		logger.Warn(".env file not found, using environment variables", "error", err)
	}

	setDefaults(v)
	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "pos-console")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", "8090")
	v.SetDefault("APP_DEBUG", false)
	v.SetDefault("BACKEND_URL", "http://localhost:3600")
	v.SetDefault("BACKEND_TIMEOUT_SECONDS", 15)
	v.SetDefault("STORAGE_PATH", "./storage")
	v.SetDefault("SESSION_SECRET", "")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DATABASE_MAX_OPEN_CONNS", 5)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	v.SetDefault("RATE_LIMIT_RPS", 10)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	v.SetDefault("PRINTER_TYPE", "none")
	v.SetDefault("PRINTER_USB_PATH", "/dev/usb/lp0")
	v.SetDefault("PRINTER_ADDRESS", "")
	v.SetDefault("PRINTER_WIDTH", 32)
	v.SetDefault("STORE_NAME", "Mi Tienda")
	v.SetDefault("STORE_ADDRESS", "")
	v.SetDefault("STORE_PHONE", "")
}

func stringSlice(v *viper.Viper, key string) []string {
	var out []string
	for _, item := range v.GetStringSlice(key) {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		App: AppConfig{
			Name:  v.GetString("APP_NAME"),
			Env:   v.GetString("APP_ENV"),
			Port:  v.GetString("APP_PORT"),
			Debug: v.GetBool("APP_DEBUG"),
		},
		Backend: BackendConfig{
			URL:     strings.TrimRight(v.GetString("BACKEND_URL"), "/"),
			Timeout: time.Duration(v.GetInt("BACKEND_TIMEOUT_SECONDS")) * time.Second,
		},
		Storage: StorageConfig{
			Path:          v.GetString("STORAGE_PATH"),
			SessionSecret: v.GetString("SESSION_SECRET"),
		},
		Database: DatabaseConfig{
			URL:          v.GetString("DATABASE_URL"),
			MaxOpenConns: v.GetInt("DATABASE_MAX_OPEN_CONNS"),
			Debug:        v.GetBool("APP_DEBUG"),
		},
		CORS: CORSConfig{
			AllowedOrigins: stringSlice(v, "CORS_ALLOWED_ORIGINS"),
			AllowedMethods: stringSlice(v, "CORS_ALLOWED_METHODS"),
			AllowedHeaders: stringSlice(v, "CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:             v.GetInt("RATE_LIMIT_BURST"),
		},
		Printer: PrinterConfig{
			Type:    strings.ToLower(v.GetString("PRINTER_TYPE")),
			USBPath: v.GetString("PRINTER_USB_PATH"),
			Address: v.GetString("PRINTER_ADDRESS"),
			Width:   v.GetInt("PRINTER_WIDTH"),
		},
		Store: StoreConfig{
			Name:    v.GetString("STORE_NAME"),
			Address: v.GetString("STORE_ADDRESS"),
			Phone:   v.GetString("STORE_PHONE"),
		},
	}
}

// Validate checks the settings the console cannot start without
func (c *Config) Validate() error {
	u, err := url.Parse(c.Backend.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: BACKEND_URL %q is not an absolute URL", c.Backend.URL)
	}
	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("config: BACKEND_TIMEOUT_SECONDS must be positive")
	}
	if c.Storage.Path == "" {
		return fmt.Errorf("config: STORAGE_PATH is required")
	}
	return nil
}

// IsProduction reports whether APP_ENV is production
func (c *AppConfig) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}
