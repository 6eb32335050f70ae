package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/isoclass/isoclass/pkg/catalog"
)

// Config is the optional TOML configuration loaded from
// ~/.config/isoclass/config.toml. Command-line flags override file values.
//
//	[engine]
//	seed = 1
//	sparse = false
//
//	[catalog]
//	backend = "file"           # memory | file | redis | mongo | null
//	dir = "~/.local/share/isoclass/catalog"
//
//	[catalog.redis]
//	addr = "localhost:6379"
//
//	[catalog.mongo]
//	uri = "mongodb://localhost:27017"
type Config struct {
	Engine  EngineConfig  `toml:"engine"`
	Catalog CatalogConfig `toml:"catalog"`
}

// EngineConfig holds engine defaults.
type EngineConfig struct {
	Seed   int64 `toml:"seed"`
	Sparse bool  `toml:"sparse"`
}

// CatalogConfig holds catalog store settings.
type CatalogConfig struct {
	Backend string      `toml:"backend"`
	Dir     string      `toml:"dir"`
	Redis   RedisConfig `toml:"redis"`
	Mongo   MongoConfig `toml:"mongo"`
}

// RedisConfig mirrors catalog.RedisConfig in TOML form.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// MongoConfig mirrors catalog.MongoConfig in TOML form.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// configPath returns the per-user config file location.
func configPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "isoclass", "config.toml"), nil
}

// loadConfig reads the config file if present; a missing file yields the
// zero config without error.
func loadConfig() (Config, error) {
	var cfg Config
	path, err := configPath()
	if err != nil {
		return cfg, nil
	}
	return loadConfigFrom(path)
}

// loadConfigFrom reads a specific config file.
func loadConfigFrom(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// defaultCatalogDir is where the file backend stores records when no
// directory is configured.
func defaultCatalogDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "isoclass-catalog")
	}
	return filepath.Join(home, ".local", "share", "isoclass", "catalog")
}

// storeConfig converts the TOML catalog settings into a catalog.Config,
// applying the backend override when non-empty.
func (c Config) storeConfig(backendOverride string) catalog.Config {
	out := catalog.Config{
		Backend: c.Catalog.Backend,
		Dir:     c.Catalog.Dir,
		Redis: catalog.RedisConfig{
			Addr:     c.Catalog.Redis.Addr,
			Password: c.Catalog.Redis.Password,
			DB:       c.Catalog.Redis.DB,
		},
		Mongo: catalog.MongoConfig{
			URI:        c.Catalog.Mongo.URI,
			Database:   c.Catalog.Mongo.Database,
			Collection: c.Catalog.Mongo.Collection,
		},
	}
	if backendOverride != "" {
		out.Backend = backendOverride
	}
	if out.Backend == "file" && out.Dir == "" {
		out.Dir = defaultCatalogDir()
	}
	return out
}
