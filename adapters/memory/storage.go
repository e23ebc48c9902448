package memory

import (
	"context"
	"sync"

	"progresskit/core"
)

// Store is a concurrent in-memory snapshot store.
type Store struct {
	learners sync.Map // map[core.LearnerID]*record
}

type record struct {
	mu   sync.Mutex
	snap core.ProgressionSnapshot
	set  bool
}

func New() *Store { return &Store{} }

func (s *Store) getOrCreate(learner core.LearnerID) *record {
	if v, ok := s.learners.Load(learner); ok {
		return v.(*record)
	}
	actual, _ := s.learners.LoadOrStore(learner, &record{})
	return actual.(*record)
}

func (s *Store) Load(_ context.Context, learner core.LearnerID) (core.ProgressionSnapshot, bool, error) {
	rec := s.getOrCreate(learner)
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if !rec.set {
		return core.ProgressionSnapshot{}, false, nil
	}
	return rec.snap.Clone(), true, nil
}

func (s *Store) Save(_ context.Context, learner core.LearnerID, snap core.ProgressionSnapshot) error {
	rec := s.getOrCreate(learner)
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.snap = snap.Clone()
	rec.set = true
	return nil
}

var _ interface {
	Load(context.Context, core.LearnerID) (core.ProgressionSnapshot, bool, error)
	Save(context.Context, core.LearnerID, core.ProgressionSnapshot) error
} = (*Store)(nil)
