package config

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"regexp"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const defaultBaseURL = "localhost:8081"

var (
	ErrNoAuthSecret    = errors.New("AUTH_SECRET is not set")
	ErrNoEncryptionKey = errors.New("ENCRYPTION_KEY is not set")
)

type Config struct {
	// Server-side settings
	DatabaseDSN   string        `env:"DATABASE_URI"`
	AuthSecret    string        `env:"AUTH_SECRET"`
	EncryptionKey string        `env:"ENCRYPTION_KEY"`
	LogProd       bool          `env:"LOG_PROD"`

	// Shared settings
	BaseURL     string `env:"BASE_URL"`
	EnableHTTPS bool   `env:"ENABLE_HTTPS"`

	// Client-side settings
	ServerURL string `env:"-"`
	TokenFile string `env:"TOKEN_FILE"`
	Version   bool   `env:"-"` // show client version and exit (flag only)
}

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// Server flags
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "строка подключения к БД")
	flag.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "секрет для подписи JWT")
	flag.StringVar(&cfg.EncryptionKey, "encryption-key", cfg.EncryptionKey, "мастер-секрет шифрования значений ключей")
	flag.BoolVar(&cfg.LogProd, "log-prod", cfg.LogProd, "production logger (JSON)")
	// Shared/client flags
	flag.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "address of the KeyVault server (host:port)")
	flag.BoolVar(&cfg.EnableHTTPS, "https", cfg.EnableHTTPS, "enable HTTPS (client: use https scheme, server: secure cookies)")
	// Client flags
	flag.StringVar(&cfg.TokenFile, "token-file", cfg.TokenFile, "path to auth token file (client)")
	flag.BoolVar(&cfg.Version, "version", cfg.Version, "Show client version and exit")

	flag.Parse()

	cfg.applyDefaults()
	return cfg
}

func (cfg *Config) applyDefaults() {
	// BaseURL: только "address:port", без схемы и пути
	hostPortRe := regexp.MustCompile(`^[A-Za-z0-9\.\-]+:\d{1,5}$`)
	if !hostPortRe.MatchString(cfg.BaseURL) {
		cfg.BaseURL = defaultBaseURL
	}

	if cfg.EnableHTTPS {
		cfg.ServerURL = "https://" + cfg.BaseURL
	} else {
		cfg.ServerURL = "http://" + cfg.BaseURL
	}

	if cfg.TokenFile == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			cfg.TokenFile = filepath.Join(dir, "KeyVault", "auth_token")
		} else {
			home, _ := os.UserHomeDir()
			cfg.TokenFile = filepath.Join(home, ".keyvault_token")
		}
	}
}

// ValidateServer проверяет, что секреты сервера заданы. Без них сервер не стартует.
func (cfg *Config) ValidateServer() error {
	var errs []error
	if cfg.AuthSecret == "" {
		errs = append(errs, ErrNoAuthSecret)
	}
	if cfg.EncryptionKey == "" {
		errs = append(errs, ErrNoEncryptionKey)
	}
	return errors.Join(errs...)
}
