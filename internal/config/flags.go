package config

import (
	"github.com/spf13/pflag"
)

// RegisterFlags defines one flag per commonly overridden setting, using
// the built-in defaults for help output.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Defaults()
	fs.String("addr", d.Addr, "HTTP listen address")
	fs.String("static-dir", d.StaticDir, "directory of pre-built site assets served at /")
	fs.String("data-dir", d.DataDir, "directory for cart storage and backups")
	fs.String("storage", d.Storage, "cart storage backend: memory, file, bolt, sqlite, redis")
	fs.String("redis-url", d.RedisURL, "redis:// URL for the redis backend")
	fs.String("catalog", d.CatalogPath, "YAML or JSON product catalog (built-in list when empty)")
	fs.String("shop-name", d.ShopName, "shop name advertised over mDNS and /api/info")
	fs.Bool("mdns", d.MDNS, "advertise the shop on the local network")
	fs.Bool("debug", d.Debug, "enable debug logging")
	fs.String("log-format", d.LogFormat, "log format: text or json")
}

// ApplyFlags overrides c with every flag the user explicitly set.
func (c *Config) ApplyFlags(fs *pflag.FlagSet) error {
	strs := map[string]*string{
		"addr":       &c.Addr,
		"static-dir": &c.StaticDir,
		"data-dir":   &c.DataDir,
		"storage":    &c.Storage,
		"redis-url":  &c.RedisURL,
		"catalog":    &c.CatalogPath,
		"shop-name":  &c.ShopName,
		"log-format": &c.LogFormat,
	}
	for name, dst := range strs {
		if !fs.Changed(name) {
			continue
		}
		v, err := fs.GetString(name)
		if err != nil {
			return err
		}
		*dst = v
	}

	bools := map[string]*bool{
		"mdns":  &c.MDNS,
		"debug": &c.Debug,
	}
	for name, dst := range bools {
		if !fs.Changed(name) {
			continue
		}
		v, err := fs.GetBool(name)
		if err != nil {
			return err
		}
		*dst = v
	}
	return nil
}
