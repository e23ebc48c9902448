package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"progresskit/core"
	"progresskit/engine"
)

// Store persists all learner snapshots to a single JSON file.
// Suitable for demos and small deployments.
type Store struct {
	path string
	mu   sync.Mutex
	// in-memory cache for speed
	data map[core.LearnerID]core.ProgressionSnapshot
}

func New(path string) (*Store, error) {
	s := &Store{path: path, data: map[core.LearnerID]core.ProgressionSnapshot{}}
	if err := s.load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return s, nil
}

func (s *Store) load() error {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}
	var raw map[string]core.ProgressionSnapshot
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("%w: %s: %v", engine.ErrCorruptSnapshot, s.path, err)
	}
	for k, v := range raw {
		s.data[core.LearnerID(k)] = v
	}
	return nil
}

func (s *Store) persist() error {
	tmp := s.path + ".tmp"
	raw := make(map[string]core.ProgressionSnapshot, len(s.data))
	for k, v := range s.data {
		raw[string(k)] = v
	}
	b, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *Store) Load(_ context.Context, learner core.LearnerID) (core.ProgressionSnapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.data[learner]
	if !ok {
		return core.ProgressionSnapshot{}, false, nil
	}
	return snap.Clone(), true, nil
}

func (s *Store) Save(_ context.Context, learner core.LearnerID, snap core.ProgressionSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, had := s.data[learner]
	s.data[learner] = snap.Clone()
	if err := s.persist(); err != nil {
		// The cache must keep mirroring the file: a failed write leaves the
		// previously persisted snapshot authoritative.
		if had {
			s.data[learner] = prev
		} else {
			delete(s.data, learner)
		}
		return err
	}
	return nil
}

var _ engine.Store = (*Store)(nil)
