// Package store persists named offer scenarios.
//
// Backends: Postgres (JSONB), SQLite, one JSON file per scenario, and memory.
// All of them satisfy ScenarioRepository and report missing scenarios as ErrNotFound.
package store

import (
	"context"
	"errors"
	"fmt"

	"offer_analyzer/pkg/models"
)

// ErrNotFound is returned when a scenario ID is unknown
var ErrNotFound = errors.New("scenario not found")

// Driver names accepted by Open
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverFile     = "file"
	DriverMemory   = "memory"
)

// ScenarioRepository stores scenarios by ID
type ScenarioRepository interface {
	// Save inserts or replaces the scenario, assigning an ID and timestamps as needed
	Save(ctx context.Context, s *models.Scenario) error
	Get(ctx context.Context, id string) (*models.Scenario, error)
	// List returns every scenario, most recently updated first
	List(ctx context.Context) ([]models.Scenario, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

// Options selects and configures a backend
type Options struct {
	Driver string
	DSN    string // postgres URL or sqlite file path
	Dir    string // file backend directory
}

// Open creates the repository named by opts.Driver. An empty driver means memory.
func Open(ctx context.Context, opts Options) (ScenarioRepository, error) {
	switch opts.Driver {
	case DriverPostgres:
		pool, err := NewPool(ctx, opts.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		repo := NewPostgresRepo(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		return repo, nil
	case DriverSQLite:
		return NewSQLiteRepo(ctx, opts.DSN)
	case DriverFile:
		return NewFileRepo(opts.Dir)
	case DriverMemory, "":
		return NewMemoryRepo(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}
