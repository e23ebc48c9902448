package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"progresskit/core"
)

// Service is the answer processor: it turns answer events into XP, level
// transitions, streak updates, and badge unlocks, with exactly one
// persistence write per call. All computation between load and save is pure.
type Service struct {
	store   Store
	bus     *EventBus
	catalog []core.Badge
	now     func() time.Time
	locks   learnerLocks
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithClock overrides the engine clock, used when an AnswerEvent carries no
// timestamp. Tests use this to drive calendar-day scenarios.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(store Store, bus *EventBus, catalog []core.Badge, opts ...ServiceOption) *Service {
	if store == nil || bus == nil {
		panic("NewService requires non-nil store and bus")
	}
	s := &Service{
		store:   store,
		bus:     bus,
		catalog: catalog,
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Subscribe convenience method.
func (s *Service) Subscribe(typ core.EventType, handler func(context.Context, core.Event)) func() {
	return s.bus.Subscribe(typ, handler)
}

func (s *Service) Publish(ctx context.Context, ev core.Event) {
	s.bus.Publish(ctx, ev)
}

// RecordAnswer applies one answer outcome to the learner's snapshot.
// It either completes fully (mutates and persists) or fails atomically:
// on ErrNotSaved the previously persisted snapshot stays authoritative.
func (s *Service) RecordAnswer(ctx context.Context, learner core.LearnerID, ev core.AnswerEvent) (core.AnswerResult, error) {
	var zero core.AnswerResult
	normalized, err := core.NormalizeLearnerID(learner)
	if err != nil {
		return zero, err
	}
	if err := ev.Validate(); err != nil {
		return zero, err
	}
	at := ev.At
	if at.IsZero() {
		at = s.now()
	}

	// Serialize per learner; the snapshot contract is single-writer.
	unlock := s.locks.lock(normalized)
	defer unlock()

	snap, err := s.loadOrInit(ctx, normalized)
	if err != nil {
		return zero, err
	}

	prevLevel := core.LevelOf(snap.TotalXP)
	change := core.ApplyActivity(&snap, at)

	var result core.AnswerResult
	if ev.Correct {
		snap.FireStreak++
		xp := int64(10 * ev.DifficultyMarks)
		if ev.TimeTakenSeconds < 60 {
			xp += 5
		}
		if ev.AttemptNumber == 1 {
			xp += 10
		}
		if snap.FireStreak >= core.FireThreshold {
			xp += 5 * snap.FireStreak
		}
		total, err := core.AddSafe(snap.TotalXP, xp)
		if err != nil {
			return zero, fmt.Errorf("%w: %v", core.ErrInvalidInput, err)
		}
		snap.TotalXP = total
		snap.ConceptMastery[ev.Concept] += xp
		snap.CorrectToday++
		result.XPGained = xp
	} else {
		snap.FireStreak = 0
	}
	snap.QuestionsToday++
	snap.Level = core.LevelOf(snap.TotalXP)

	// Badges are evaluated on the scoring path only; an incorrect answer
	// awards no XP and no badges.
	var newBadges []core.Badge
	if ev.Correct {
		newBadges = core.EvaluateBadges(&snap, s.catalog)
	}
	snap.Updated = s.now()

	if err := s.store.Save(ctx, normalized, snap); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrNotSaved, err)
	}

	result.NewLevel = snap.Level
	result.LeveledUp = snap.Level > prevLevel
	result.NewBadges = newBadges
	result.IsOnFire = snap.IsOnFire()
	result.FireStreak = snap.FireStreak
	result.StreakDays = snap.CurrentStreakDays

	s.publishOutcome(ctx, normalized, ev, change, result, snap)
	return result, nil
}

// publishOutcome emits domain events after a confirmed persist.
func (s *Service) publishOutcome(ctx context.Context, learner core.LearnerID, ev core.AnswerEvent, change core.StreakChange, result core.AnswerResult, snap core.ProgressionSnapshot) {
	s.bus.Publish(ctx, core.NewAnswerRecorded(learner, ev.Concept, ev.Correct, result.XPGained, snap.TotalXP))
	if change.Extended {
		s.bus.Publish(ctx, core.NewStreakExtended(learner, snap.CurrentStreakDays))
	} else if change.Broken {
		s.bus.Publish(ctx, core.NewStreakBroken(learner, snap.CurrentStreakDays))
	}
	if ev.Correct && snap.FireStreak == core.FireThreshold {
		s.bus.Publish(ctx, core.NewOnFire(learner, snap.FireStreak))
	}
	if result.LeveledUp {
		s.bus.Publish(ctx, core.NewLevelUp(learner, snap.Level, snap.TotalXP))
	}
	for _, b := range result.NewBadges {
		s.bus.Publish(ctx, core.NewBadgeUnlocked(learner, b.ID, b.XPBonus))
	}
}

// loadOrInit fetches the persisted snapshot or builds first-use defaults.
// Corrupt data recovers locally but is logged so telemetry can tell a wiped
// record apart from a genuinely new learner.
func (s *Service) loadOrInit(ctx context.Context, learner core.LearnerID) (core.ProgressionSnapshot, error) {
	snap, ok, err := s.store.Load(ctx, learner)
	if err != nil {
		if errors.Is(err, ErrCorruptSnapshot) {
			slog.Warn("discarding corrupt snapshot, treating learner as new", "learner", learner, "error", err)
			return core.NewSnapshot(learner), nil
		}
		return core.ProgressionSnapshot{}, err
	}
	if !ok {
		return core.NewSnapshot(learner), nil
	}
	if snap.ConceptMastery == nil {
		snap.ConceptMastery = map[string]int64{}
	}
	return snap, nil
}

// GetSnapshot returns the learner's current snapshot, or first-use defaults
// if nothing is persisted yet. It never writes.
func (s *Service) GetSnapshot(ctx context.Context, learner core.LearnerID) (core.ProgressionSnapshot, error) {
	normalized, err := core.NormalizeLearnerID(learner)
	if err != nil {
		return core.ProgressionSnapshot{}, err
	}
	return s.loadOrInit(ctx, normalized)
}

// BadgeCatalog returns the static badge catalog in evaluation order.
func (s *Service) BadgeCatalog() []core.Badge {
	return append([]core.Badge(nil), s.catalog...)
}

func (s *Service) Close() { s.bus.Close() }

// learnerLocks hands out one mutex per learner id so concurrent RecordAnswer
// calls for the same learner serialize while distinct learners proceed in
// parallel.
type learnerLocks struct {
	mu sync.Mutex
	m  map[core.LearnerID]*sync.Mutex
}

func (l *learnerLocks) lock(id core.LearnerID) func() {
	l.mu.Lock()
	if l.m == nil {
		l.m = map[core.LearnerID]*sync.Mutex{}
	}
	m, ok := l.m[id]
	if !ok {
		m = &sync.Mutex{}
		l.m[id] = m
	}
	l.mu.Unlock()
	m.Lock()
	return m.Unlock
}
