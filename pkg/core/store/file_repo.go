package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"offer_analyzer/pkg/core/utils"
	"offer_analyzer/pkg/models"
)

// FileRepo keeps one JSON file per scenario in a directory. Files may be edited by hand;
// they are read with the lenient JSON/Hjson parser.
type FileRepo struct {
	dir string
	mu  sync.Mutex
}

// NewFileRepo creates the directory if needed. An empty dir defaults to .cache/scenarios.
func NewFileRepo(dir string) (*FileRepo, error) {
	if dir == "" {
		dir = filepath.Join(".cache", "scenarios")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create scenario dir %s: %w", dir, err)
	}
	return &FileRepo{dir: dir}, nil
}

// Save writes the scenario to <dir>/<id>.json
func (r *FileRepo) Save(ctx context.Context, s *models.Scenario) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s.Stamp(time.Now())
	fileBytes, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal scenario: %w", err)
	}

	// write then rename so a crash never leaves a half-written file
	path := r.path(s.ID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, fileBytes, 0644); err != nil {
		return fmt.Errorf("failed to save scenario file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to save scenario file: %w", err)
	}
	fmt.Printf("[STORE] Saved scenario %s (%s) to %s\n", s.ID, s.Name, path)
	return nil
}

// Get reads one scenario file
func (r *FileRepo) Get(ctx context.Context, id string) (*models.Scenario, error) {
	if !models.ValidID(id) {
		return nil, ErrNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	s, err := r.load(r.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

// List reads every scenario file, skipping files that fail to parse
func (r *FileRepo) List(ctx context.Context) ([]models.Scenario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	files, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario dir: %w", err)
	}

	var out []models.Scenario
	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != ".json" {
			continue
		}
		s, err := r.load(filepath.Join(r.dir, f.Name()))
		if err != nil {
			fmt.Printf("[WARNING] Skipping scenario file %s: %v\n", f.Name(), err)
			continue
		}
		out = append(out, *s)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

// Delete removes the scenario file
func (r *FileRepo) Delete(ctx context.Context, id string) error {
	if !models.ValidID(id) {
		return ErrNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.Remove(r.path(id)); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete scenario file: %w", err)
	}
	return nil
}

// Close is a no-op
func (r *FileRepo) Close() error {
	return nil
}

func (r *FileRepo) path(id string) string {
	return filepath.Join(r.dir, id+".json")
}

func (r *FileRepo) load(path string) (*models.Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s models.Scenario
	if _, err := utils.SmartParse(string(data), &s); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if s.ID == "" {
		s.ID = trimExt(filepath.Base(path))
	}
	return &s, nil
}

func trimExt(name string) string {
	return name[:len(name)-len(filepath.Ext(name))]
}
