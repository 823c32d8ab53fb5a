package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/pflag"

	"github.com/greenfield-poultry/farmshop/internal/checkout"
	"github.com/greenfield-poultry/farmshop/internal/config"
)

func TestDefaults(t *testing.T) {
	d := config.Defaults()
	if d.Addr != ":8080" || d.Storage != "file" || d.DataDir != "./data" {
		t.Errorf("defaults = %+v", d)
	}
	if d.ConfirmDelay != time.Second || d.BackupRetention != 30*24*time.Hour {
		t.Errorf("durations = %v, %v", d.ConfirmDelay, d.BackupRetention)
	}
	if diff := cmp.Diff(checkout.DefaultPricing(), d.Pricing()); diff != "" {
		t.Errorf("pricing mismatch (-want +got):\n%s", diff)
	}
	if err := d.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
	if got := d.BackupPath(); got != filepath.Join("data", "backups") {
		t.Errorf("BackupPath = %q", got)
	}
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("FARMSHOP_ADDR", ":9090")
	t.Setenv("FARMSHOP_STORAGE", "bolt")
	t.Setenv("FARMSHOP_DELIVERY_FEE", "15")
	t.Setenv("FARMSHOP_SESSION_IDLE_TTL", "2h")
	t.Setenv("FARMSHOP_MDNS", "true")

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":9090" || cfg.Storage != "bolt" || cfg.DeliveryFee != 15 || cfg.SessionIdleTTL != 2*time.Hour || !cfg.MDNS {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.StorageOptions().Backend != "bolt" {
		t.Errorf("StorageOptions = %+v", cfg.StorageOptions())
	}
}

func TestLoad_DotEnvDoesNotOverrideEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	body := "FARMSHOP_SHOP_NAME=From Dotenv\nFARMSHOP_CURRENCY=USD\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FARMSHOP_CURRENCY", "GHS")
	// godotenv sets process variables; register them for cleanup.
	t.Setenv("FARMSHOP_SHOP_NAME", "")
	os.Unsetenv("FARMSHOP_SHOP_NAME")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ShopName != "From Dotenv" {
		t.Errorf("ShopName = %q, want value from .env", cfg.ShopName)
	}
	if cfg.Currency != "GHS" {
		t.Errorf("Currency = %q, want environment value", cfg.Currency)
	}
}

func TestLoad_MissingDotEnvIsFine(t *testing.T) {
	if _, err := config.Load(filepath.Join(t.TempDir(), "nope.env")); err != nil {
		t.Errorf("Load(missing) = %v", err)
	}
}

func TestLoad_BadValue(t *testing.T) {
	t.Setenv("FARMSHOP_CONFIRM_DELAY", "soon")
	if _, err := config.Load(""); err == nil {
		t.Error("Load() error = nil for bad duration")
	}
}

func TestValidate(t *testing.T) {
	tests := map[string]func(*config.Config){
		"unknown backend": func(c *config.Config) { c.Storage = "floppy" },
		"redis no url":    func(c *config.Config) { c.Storage = "redis" },
		"negative fee":    func(c *config.Config) { c.DeliveryFee = -1 },
		"zero sweep":      func(c *config.Config) { c.SweepInterval = 0 },
		"log format":      func(c *config.Config) { c.LogFormat = "xml" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := config.Defaults()
			mutate(&c)
			if err := c.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}

func TestApplyFlags_OnlyChanged(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	config.RegisterFlags(fs)
	if err := fs.Parse([]string{"--storage=sqlite", "--debug"}); err != nil {
		t.Fatal(err)
	}

	cfg := config.Defaults()
	cfg.Addr = ":7000" // from environment, no flag given
	if err := cfg.ApplyFlags(fs); err != nil {
		t.Fatal(err)
	}
	if cfg.Storage != "sqlite" || !cfg.Debug {
		t.Errorf("flags not applied: %+v", cfg)
	}
	if cfg.Addr != ":7000" {
		t.Errorf("Addr = %q, unset flag overrode it", cfg.Addr)
	}
}
