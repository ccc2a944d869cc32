package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"offer_analyzer/pkg/core/assumption"
	"offer_analyzer/pkg/models"
)

// PostgresRepo keeps scenarios in one table with the assumptions in a JSONB column
type PostgresRepo struct {
	pool *pgxpool.Pool
}

// NewPostgresRepo creates a repository on an existing pool
func NewPostgresRepo(pool *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{pool: pool}
}

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS offer_scenarios (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		assumptions JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);
`

// EnsureSchema creates the scenarios table if it does not exist
func (r *PostgresRepo) EnsureSchema(ctx context.Context) error {
	if r.pool == nil {
		return fmt.Errorf("database pool not initialized")
	}
	if _, err := r.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("failed to create offer_scenarios: %w", err)
	}
	return nil
}

// Save upserts the scenario by ID
func (r *PostgresRepo) Save(ctx context.Context, s *models.Scenario) error {
	if r.pool == nil {
		return fmt.Errorf("database pool not initialized")
	}
	s.Stamp(time.Now())

	jsonData, err := json.Marshal(s.Assumptions)
	if err != nil {
		return fmt.Errorf("failed to marshal assumptions: %w", err)
	}

	query := `
		INSERT INTO offer_scenarios (id, name, assumptions, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id)
		DO UPDATE SET
			name = EXCLUDED.name,
			assumptions = EXCLUDED.assumptions,
			updated_at = EXCLUDED.updated_at;
	`
	if _, err := r.pool.Exec(ctx, query, s.ID, s.Name, jsonData, s.CreatedAt, s.UpdatedAt); err != nil {
		return fmt.Errorf("failed to save scenario: %w", err)
	}
	fmt.Printf("[STORE] Saved scenario %s (%s) to postgres\n", s.ID, s.Name)
	return nil
}

// Get loads one scenario
func (r *PostgresRepo) Get(ctx context.Context, id string) (*models.Scenario, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}
	// the column is UUID; anything else would be a cast error rather than a miss
	if !models.ValidID(id) {
		return nil, ErrNotFound
	}

	query := `SELECT id::text, name, assumptions, created_at, updated_at FROM offer_scenarios WHERE id = $1`
	s, err := scanScenario(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load scenario: %w", err)
	}
	return s, nil
}

// List returns every scenario, most recently updated first
func (r *PostgresRepo) List(ctx context.Context) ([]models.Scenario, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	query := `SELECT id::text, name, assumptions, created_at, updated_at FROM offer_scenarios ORDER BY updated_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}
	defer rows.Close()

	var out []models.Scenario
	for rows.Next() {
		s, err := scanScenario(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scenario: %w", err)
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

// Delete removes a scenario
func (r *PostgresRepo) Delete(ctx context.Context, id string) error {
	if r.pool == nil {
		return fmt.Errorf("database pool not initialized")
	}
	if !models.ValidID(id) {
		return ErrNotFound
	}

	tag, err := r.pool.Exec(ctx, `DELETE FROM offer_scenarios WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete scenario: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Close releases the pool
func (r *PostgresRepo) Close() error {
	if r.pool != nil {
		r.pool.Close()
	}
	return nil
}

func scanScenario(row pgx.Row) (*models.Scenario, error) {
	var (
		s        models.Scenario
		jsonData []byte
	)
	if err := row.Scan(&s.ID, &s.Name, &jsonData, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	a, err := assumption.FromJSON(jsonData)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal assumptions: %w", err)
	}
	s.Assumptions = a
	return &s, nil
}
