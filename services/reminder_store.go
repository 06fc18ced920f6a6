package services

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// ReminderStore persists per-proposal reminder counts to a local JSON file
// so the bound survives process restarts. Single process assumed; no
// cross-process coordination.
type ReminderStore struct {
	path string

	mu     sync.Mutex
	counts map[uint]int
}

// LoadReminderStore reads the state file, treating a missing file as an
// empty store.
func LoadReminderStore(path string) (*ReminderStore, error) {
	store := &ReminderStore{
		path:   path,
		counts: make(map[uint]int),
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return store, nil
		}
		return nil, err
	}
	if len(raw) == 0 {
		return store, nil
	}
	if err := json.Unmarshal(raw, &store.counts); err != nil {
		return nil, err
	}
	return store, nil
}

// Count returns the reminders already sent for a proposal.
func (s *ReminderStore) Count(proposalID uint) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[proposalID]
}

// Increment bumps the count and persists the file before returning.
func (s *ReminderStore) Increment(proposalID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counts[proposalID]++
	return s.flushLocked()
}

// Forget drops a proposal that left SUBMITTED, keeping the file small.
func (s *ReminderStore) Forget(proposalID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.counts[proposalID]; !ok {
		return nil
	}
	delete(s.counts, proposalID)
	return s.flushLocked()
}

func (s *ReminderStore) flushLocked() error {
	raw, err := json.Marshal(s.counts)
	if err != nil {
		return err
	}

	// write-then-rename so a crash cannot truncate the live file
	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), os.ModePerm); err != nil {
		return err
	}
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
