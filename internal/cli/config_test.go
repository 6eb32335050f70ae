package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigFrom(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[engine]
seed = 7
sparse = true

[catalog]
backend = "redis"

[catalog.redis]
addr = "redis.internal:6379"
db = 2
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfigFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Engine.Seed != 7 || !cfg.Engine.Sparse {
		t.Errorf("engine config = %+v", cfg.Engine)
	}
	if cfg.Catalog.Backend != "redis" {
		t.Errorf("backend = %q, want redis", cfg.Catalog.Backend)
	}
	if cfg.Catalog.Redis.Addr != "redis.internal:6379" || cfg.Catalog.Redis.DB != 2 {
		t.Errorf("redis config = %+v", cfg.Catalog.Redis)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := loadConfigFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("missing config must not error: %v", err)
	}
	if cfg.Engine.Seed != 0 {
		t.Error("missing config must yield zero values")
	}
}

func TestStoreConfig(t *testing.T) {
	var cfg Config
	cfg.Catalog.Backend = "memory"

	sc := cfg.storeConfig("")
	if sc.Backend != "memory" {
		t.Errorf("Backend = %q, want memory", sc.Backend)
	}

	sc = cfg.storeConfig("file")
	if sc.Backend != "file" {
		t.Errorf("override Backend = %q, want file", sc.Backend)
	}
	if sc.Dir == "" {
		t.Error("file backend must get a default directory")
	}
}

func TestEngineFlagsApply(t *testing.T) {
	var cfg Config
	cfg.Engine.Seed = 11
	cfg.Engine.Sparse = true

	f := engineFlags{}
	f.apply(cfg)
	if f.seed != 11 || !f.sparse {
		t.Errorf("flags = %+v, config defaults not applied", f)
	}

	f = engineFlags{seed: 3}
	f.apply(cfg)
	if f.seed != 3 {
		t.Error("explicit seed overridden by config")
	}
}
