package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"offer_analyzer/pkg/core/assumption"
	"offer_analyzer/pkg/models"
)

// SQLiteRepo keeps scenarios in a local SQLite file. Timestamps are stored as fixed-width
// UTC text so they sort lexically; the assumptions go in a JSON text column.
type SQLiteRepo struct {
	db *sql.DB
}

const sqliteTimeLayout = "2006-01-02T15:04:05.000000Z07:00"

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS offer_scenarios (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		assumptions TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);`

// NewSQLiteRepo opens (or creates) the database file at path
func NewSQLiteRepo(ctx context.Context, path string) (*SQLiteRepo, error) {
	if path == "" {
		path = "offers.db"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	return &SQLiteRepo{db: db}, nil
}

// Save upserts the scenario by ID
func (r *SQLiteRepo) Save(ctx context.Context, s *models.Scenario) error {
	s.Stamp(time.Now())

	jsonData, err := json.Marshal(s.Assumptions)
	if err != nil {
		return fmt.Errorf("failed to marshal assumptions: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO offer_scenarios (id, name, assumptions, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			assumptions = excluded.assumptions,
			updated_at = excluded.updated_at`,
		s.ID, s.Name, string(jsonData), s.CreatedAt.Format(sqliteTimeLayout), s.UpdatedAt.Format(sqliteTimeLayout))
	if err != nil {
		return fmt.Errorf("failed to save scenario: %w", err)
	}
	fmt.Printf("[STORE] Saved scenario %s (%s) to sqlite\n", s.ID, s.Name)
	return nil
}

// Get loads one scenario
func (r *SQLiteRepo) Get(ctx context.Context, id string) (*models.Scenario, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, assumptions, created_at, updated_at FROM offer_scenarios WHERE id = ?`, id)
	s, err := scanSQLiteScenario(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load scenario: %w", err)
	}
	return s, nil
}

// List returns every scenario, most recently updated first
func (r *SQLiteRepo) List(ctx context.Context) ([]models.Scenario, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, assumptions, created_at, updated_at FROM offer_scenarios ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}
	defer rows.Close()

	var out []models.Scenario
	for rows.Next() {
		s, err := scanSQLiteScenario(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scenario: %w", err)
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

// Delete removes a scenario
func (r *SQLiteRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM offer_scenarios WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete scenario: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Close closes the database handle
func (r *SQLiteRepo) Close() error {
	return r.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteScenario(row rowScanner) (*models.Scenario, error) {
	var (
		s                models.Scenario
		jsonData         string
		created, updated string
	)
	if err := row.Scan(&s.ID, &s.Name, &jsonData, &created, &updated); err != nil {
		return nil, err
	}

	a, err := assumption.FromJSON([]byte(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal assumptions: %w", err)
	}
	s.Assumptions = a

	if s.CreatedAt, err = time.Parse(sqliteTimeLayout, created); err != nil {
		return nil, fmt.Errorf("bad created_at %q: %w", created, err)
	}
	if s.UpdatedAt, err = time.Parse(sqliteTimeLayout, updated); err != nil {
		return nil, fmt.Errorf("bad updated_at %q: %w", updated, err)
	}
	return &s, nil
}
