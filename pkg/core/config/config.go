// Package config loads runtime settings from config/app.yaml, .env and the environment
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"offer_analyzer/pkg/core/grading"
	"offer_analyzer/pkg/core/store"
)

// DefaultPath is where the server and CLI look for the config file
const DefaultPath = "config/app.yaml"

type Config struct {
	Server  ServerConfig  `yaml:"server" json:"server"`
	Store   StoreConfig   `yaml:"store" json:"store"`
	Grading GradingConfig `yaml:"grading" json:"grading"`
}

type ServerConfig struct {
	Addr          string `yaml:"addr" json:"addr"`
	AllowedOrigin string `yaml:"allowed_origin" json:"allowed_origin"`
}

type StoreConfig struct {
	Driver string `yaml:"driver" json:"driver"`
	Dir    string `yaml:"dir" json:"dir"`
	DSN    string `yaml:"dsn" json:"-"`
}

type GradingConfig struct {
	Benchmarks string `yaml:"benchmarks" json:"benchmarks"`
}

// Default is used for anything the file and environment leave empty
func Default() Config {
	return Config{
		Server: ServerConfig{Addr: ":8080", AllowedOrigin: "*"},
		Store:  StoreConfig{Driver: store.DriverMemory},
	}
}

// Load reads .env (if present), then the YAML file (if present), then applies
// environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Printf("[WARNING] Failed to load .env: %v\n", err)
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
			}
		case os.IsNotExist(err):
			fmt.Printf("[CONFIG] %s not found, using defaults\n", path)
		default:
			return Config{}, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() {
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Addr = ":" + port
	}
	if driver := os.Getenv("OFFER_STORE_DRIVER"); driver != "" {
		c.Store.Driver = driver
	}
	if dir := os.Getenv("OFFER_STORE_DIR"); dir != "" {
		c.Store.Dir = dir
	}
	// DATABASE_URL only ever names a Postgres database
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" && c.Store.DSN == "" {
		switch c.Store.Driver {
		case store.DriverPostgres:
			c.Store.DSN = dsn
		case store.DriverMemory:
			if os.Getenv("OFFER_STORE_DRIVER") == "" {
				c.Store.Driver = store.DriverPostgres
				c.Store.DSN = dsn
			}
		}
	}
	if b := os.Getenv("OFFER_BENCHMARKS"); b != "" {
		c.Grading.Benchmarks = b
	}
}

// Validate rejects unknown store drivers
func (c Config) Validate() error {
	switch c.Store.Driver {
	case store.DriverMemory, store.DriverFile, store.DriverSQLite, store.DriverPostgres:
		return nil
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
}

// StoreOptions converts the store section for store.Open
func (c Config) StoreOptions() store.Options {
	return store.Options{Driver: c.Store.Driver, DSN: c.Store.DSN, Dir: c.Store.Dir}
}

// Benchmarks loads the configured benchmark table, or the embedded one when unset
func (c Config) Benchmarks() (*grading.Benchmarks, error) {
	if c.Grading.Benchmarks == "" {
		return grading.Default(), nil
	}
	return grading.LoadBenchmarks(c.Grading.Benchmarks)
}

// BenchmarkSource names where the benchmark table came from
func (c Config) BenchmarkSource() string {
	if c.Grading.Benchmarks == "" {
		return "embedded"
	}
	return c.Grading.Benchmarks
}
