package models

import (
	"time"

	"github.com/google/uuid"

	"offer_analyzer/pkg/core/assumption"
)

// Scenario is a named, saved set of offer assumptions
type Scenario struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Assumptions assumption.Assumptions `json:"assumptions"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// NewScenario creates an unsaved scenario; ID and timestamps are assigned by Stamp
func NewScenario(name string, a assumption.Assumptions) *Scenario {
	return &Scenario{Name: name, Assumptions: a}
}

// Stamp assigns an ID on first save and refreshes the timestamps.
// Times are truncated to microseconds so they survive a round trip through Postgres.
func (s *Scenario) Stamp(now time.Time) {
	now = now.UTC().Truncate(time.Microsecond)
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
}

// ValidID reports whether id looks like a scenario ID
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
