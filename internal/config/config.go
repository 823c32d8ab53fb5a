// Package config loads the storefront's runtime settings.
//
// Values are resolved in order: built-in defaults, an optional .env file,
// FARMSHOP_-prefixed environment variables, then command-line flags the user
// explicitly set.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/greenfield-poultry/farmshop/internal/checkout"
	"github.com/greenfield-poultry/farmshop/internal/storage"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "FARMSHOP_"

// Config is the full set of storefront settings.
type Config struct {
	Addr      string `env:"ADDR" envDefault:":8080"`
	StaticDir string `env:"STATIC_DIR"`
	DataDir   string `env:"DATA_DIR" envDefault:"./data"`

	Storage     string `env:"STORAGE" envDefault:"file"`
	RedisURL    string `env:"REDIS_URL"`
	RedisPrefix string `env:"REDIS_PREFIX" envDefault:"farmshop:"`

	CatalogPath  string `env:"CATALOG"`
	WatchCatalog bool   `env:"WATCH_CATALOG" envDefault:"true"`

	ShopName              string        `env:"SHOP_NAME" envDefault:"Greenfield Poultry Farm"`
	Currency              string        `env:"CURRENCY" envDefault:"GH₵"`
	DeliveryFee           float64       `env:"DELIVERY_FEE" envDefault:"20"`
	FreeDeliveryThreshold float64       `env:"FREE_DELIVERY_THRESHOLD" envDefault:"200"`
	ConfirmDelay          time.Duration `env:"CONFIRM_DELAY" envDefault:"1s"`

	SessionIdleTTL time.Duration `env:"SESSION_IDLE_TTL" envDefault:"30m"`
	SweepInterval  time.Duration `env:"SWEEP_INTERVAL" envDefault:"5m"`
	RateLimit      float64       `env:"RATE_LIMIT" envDefault:"5"` // mutations per second per session, 0 = off
	RateBurst      int           `env:"RATE_BURST" envDefault:"20"`

	BackupDir       string        `env:"BACKUP_DIR"` // defaults to <data dir>/backups
	BackupRetention time.Duration `env:"BACKUP_RETENTION" envDefault:"720h"`

	MDNS      bool   `env:"MDNS"`
	Debug     bool   `env:"DEBUG"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
}

// Defaults returns the built-in settings, ignoring the process environment.
func Defaults() Config {
	var cfg Config
	// Parsing an empty environment only applies envDefault tags, which are static.
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: map[string]string{}}); err != nil {
		panic(fmt.Sprintf("config: bad defaults: %v", err))
	}
	return cfg
}

// Load reads envFile (if it exists) into the process environment without
// overriding variables already set, then parses FARMSHOP_ variables.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %s: %w", envFile, err)
		}
	}
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}
	return cfg, nil
}

// Validate checks settings that would otherwise fail later at startup.
func (c Config) Validate() error {
	switch c.Storage {
	case storage.BackendMemory, storage.BackendFile, storage.BackendBolt, storage.BackendSQLite:
	case storage.BackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("config: storage %q needs %sREDIS_URL", c.Storage, EnvPrefix)
		}
	default:
		return fmt.Errorf("config: unknown storage backend %q", c.Storage)
	}
	if c.DeliveryFee < 0 || c.FreeDeliveryThreshold < 0 {
		return fmt.Errorf("config: delivery fee and threshold must not be negative")
	}
	if c.SweepInterval <= 0 || c.SessionIdleTTL <= 0 {
		return fmt.Errorf("config: sweep interval and session idle TTL must be positive")
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("config: log format must be text or json, got %q", c.LogFormat)
	}
	return nil
}

// StorageOptions returns the backend selection for storage.Open.
func (c Config) StorageOptions() storage.Options {
	return storage.Options{
		Backend:     c.Storage,
		Dir:         c.DataDir,
		RedisURL:    c.RedisURL,
		RedisPrefix: c.RedisPrefix,
	}
}

// Pricing returns the checkout delivery rules.
func (c Config) Pricing() checkout.Pricing {
	return checkout.Pricing{
		DeliveryFee:   c.DeliveryFee,
		FreeThreshold: c.FreeDeliveryThreshold,
		Currency:      c.Currency,
	}
}

// BackupPath returns the backup directory, defaulting under the data dir.
func (c Config) BackupPath() string {
	if c.BackupDir != "" {
		return c.BackupDir
	}
	return filepath.Join(c.DataDir, "backups")
}
