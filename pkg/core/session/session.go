// Package session tracks the editing state of one offer: the assumptions on screen, the
// last saved baseline, and whether leaving would lose work.
//
//	clean ──Update(changed)──▶ dirty ──BeginSave──▶ saving ──CompleteSave──▶ clean
//	  ▲                          ▲                    │
//	  └───────Reset──────────────┴─────FailSave───────┘
//
// Edits made while a save is in flight are kept; the session lands in dirty once the save
// completes if the screen no longer matches what was written.
package session

import (
	"errors"
	"fmt"
	"sync"

	"offer_analyzer/pkg/core/assumption"
	"offer_analyzer/pkg/core/utils"
)

// State is the save state of a session
type State string

const (
	StateClean  State = "clean"
	StateDirty  State = "dirty"
	StateSaving State = "saving"
)

// ErrSaveInProgress is returned by BeginSave while another save has not finished
var ErrSaveInProgress = errors.New("save already in progress")

// Session is safe for concurrent use
type Session struct {
	mu         sync.Mutex
	state      State
	current    assumption.Assumptions
	baseline   assumption.Assumptions
	saving     assumption.Assumptions
	scenarioID string
	name       string
	lastErr    error
}

// New starts a clean session on the given assumptions
func New(a assumption.Assumptions) *Session {
	return &Session{state: StateClean, current: a, baseline: a}
}

// Load starts editing a saved scenario
func (s *Session) Load(id, name string, a assumption.Assumptions) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateClean
	s.current, s.baseline = a, a
	s.scenarioID, s.name = id, name
	s.lastErr = nil
}

// Update replaces the on-screen assumptions
func (s *Session) Update(a assumption.Assumptions) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = a
	if s.state != StateSaving {
		s.state = s.settledState()
	}
}

// Apply merges a partial JSON (or Hjson) object into the current assumptions.
// Keys that are absent keep their values.
func (s *Session) Apply(partial []byte) (assumption.Assumptions, error) {
	s.mu.Lock()
	next := s.current
	s.mu.Unlock()

	if _, err := utils.SmartParse(string(partial), &next); err != nil {
		return assumption.Assumptions{}, fmt.Errorf("failed to apply update: %w", err)
	}
	s.Update(next)
	return next, nil
}

// BeginSave moves to saving and returns the snapshot to persist
func (s *Session) BeginSave() (assumption.Assumptions, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateSaving {
		return assumption.Assumptions{}, ErrSaveInProgress
	}
	s.state = StateSaving
	s.saving = s.current
	s.lastErr = nil
	return s.saving, nil
}

// CompleteSave records the stored snapshot as the new baseline
func (s *Session) CompleteSave(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateSaving {
		return
	}
	s.baseline = s.saving
	s.scenarioID = id
	s.lastErr = nil
	s.state = s.settledState()
}

// FailSave leaves the baseline untouched and keeps the error for LastError
func (s *Session) FailSave(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateSaving {
		return
	}
	s.lastErr = err
	s.state = s.settledState()
}

// Reset discards edits and starts a new, unsaved scenario from a
func (s *Session) Reset(a assumption.Assumptions) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateClean
	s.current, s.baseline = a, a
	s.scenarioID, s.name = "", ""
	s.lastErr = nil
}

// Rename sets the name used for the next save
func (s *Session) Rename(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

// HasUnsavedChanges is true while the screen differs from the last saved baseline
func (s *Session) HasUnsavedChanges() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != s.baseline
}

// WarnOnLeave reports whether navigating away should prompt. Callers pass suppress=true
// for navigation they trigger themselves (after save or reset); a save in flight never warns.
func (s *Session) WarnOnLeave(suppress bool) bool {
	if suppress {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateDirty
}

// State returns the current save state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Current returns the on-screen assumptions
func (s *Session) Current() assumption.Assumptions {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// ScenarioID is empty until the first successful save
func (s *Session) ScenarioID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scenarioID
}

// Name returns the scenario name
func (s *Session) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}

// LastError returns the error of the most recent failed save, cleared by the next successful one
func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// settledState is clean or dirty depending on the baseline; caller holds mu
func (s *Session) settledState() State {
	if s.current == s.baseline {
		return StateClean
	}
	return StateDirty
}
