package config

import (
	"os"
	"path/filepath"
	"testing"

	"offer_analyzer/pkg/core/store"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func clearEnv(t *testing.T) {
	for _, k := range []string{"PORT", "DATABASE_URL", "OFFER_STORE_DRIVER", "OFFER_STORE_DIR", "OFFER_BENCHMARKS"} {
		t.Setenv(k, "")
	}
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
server:
  addr: ":9090"
store:
  driver: sqlite
  dsn: offers.db
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("expected :9090, got %s", cfg.Server.Addr)
	}
	if cfg.Server.AllowedOrigin != "*" {
		t.Errorf("expected the default origin to survive, got %q", cfg.Server.AllowedOrigin)
	}
	opts := cfg.StoreOptions()
	if opts.Driver != store.DriverSQLite || opts.DSN != "offers.db" {
		t.Errorf("unexpected store options: %+v", opts)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Store.Driver != store.DriverMemory || cfg.Server.Addr != ":8080" {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "7000")
	t.Setenv("OFFER_STORE_DRIVER", "file")
	t.Setenv("OFFER_STORE_DIR", "/tmp/offers")
	t.Setenv("OFFER_BENCHMARKS", "custom.yaml")

	cfg, err := Load(writeConfig(t, "store:\n  driver: sqlite\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":7000" || cfg.Store.Driver != store.DriverFile || cfg.Store.Dir != "/tmp/offers" {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
	if cfg.BenchmarkSource() != "custom.yaml" {
		t.Errorf("expected custom benchmarks, got %s", cfg.BenchmarkSource())
	}
}

func TestLoad_DatabaseURLSelectsPostgres(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/offers")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Store.Driver != store.DriverPostgres || cfg.Store.DSN != "postgres://localhost/offers" {
		t.Errorf("expected postgres from DATABASE_URL, got %+v", cfg.Store)
	}
}

func TestLoad_DatabaseURLIgnoredForOtherDrivers(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/offers")

	cfg, err := Load(writeConfig(t, "store:\n  driver: sqlite\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Store.Driver != store.DriverSQLite || cfg.Store.DSN != "" {
		t.Errorf("sqlite must not pick up DATABASE_URL, got %+v", cfg.Store)
	}

	t.Setenv("OFFER_STORE_DRIVER", "file")
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Store.Driver != store.DriverFile || cfg.Store.DSN != "" {
		t.Errorf("file store must not pick up DATABASE_URL, got %+v", cfg.Store)
	}

	t.Setenv("OFFER_STORE_DRIVER", "")
	cfg, err = Load(writeConfig(t, "store:\n  driver: postgres\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Store.DSN != "postgres://localhost/offers" {
		t.Errorf("postgres should take DATABASE_URL, got %+v", cfg.Store)
	}
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)
	if _, err := Load(writeConfig(t, "store:\n  driver: mongo\n")); err == nil {
		t.Error("expected an error for an unknown driver")
	}
	if _, err := Load(writeConfig(t, "server: [")); err == nil {
		t.Error("expected an error for malformed yaml")
	}
}

func TestBenchmarks(t *testing.T) {
	b, err := Default().Benchmarks()
	if err != nil || b == nil {
		t.Fatalf("expected the embedded table, got %v", err)
	}
	cfg := Default()
	cfg.Grading.Benchmarks = filepath.Join(t.TempDir(), "missing.yaml")
	if _, err := cfg.Benchmarks(); err == nil {
		t.Error("expected an error for a missing benchmark file")
	}
}
