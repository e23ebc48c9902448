package progress

import (
	"context"
	"sync"
	"time"

	"progresskit/core"
	"progresskit/engine"
	"progresskit/realtime"
)

// Option configures the progression service builder.
type Option func(*config)

type config struct {
	store   engine.Store
	mode    engine.DispatchMode
	catalog []core.Badge
	hub     *realtime.Hub
	clock   func() time.Time
}

// WithStore sets the persistence adapter.
func WithStore(s engine.Store) Option { return func(c *config) { c.store = s } }

// WithBadges sets the badge catalog.
func WithBadges(catalog []core.Badge) Option { return func(c *config) { c.catalog = catalog } }

// WithDispatchMode selects sync or async event dispatch.
func WithDispatchMode(m engine.DispatchMode) Option { return func(c *config) { c.mode = m } }

// WithRealtime wires a realtime hub to receive all engine events.
func WithRealtime(h *realtime.Hub) Option { return func(c *config) { c.hub = h } }

// WithClock overrides the time source, mainly for tests.
func WithClock(now func() time.Time) Option { return func(c *config) { c.clock = now } }

// New builds a configured progression Service. If not provided, defaults
// are used:
//   - store: in-memory
//   - badges: DefaultCatalog
//   - dispatch: async
func New(opts ...Option) *engine.Service {
	cfg := &config{mode: engine.DispatchAsync, catalog: core.DefaultCatalog()}
	for _, o := range opts {
		o(cfg)
	}
	if cfg.store == nil {
		// lazy fallback to keep New() usable without external deps; pass explicit storage in prod
		cfg.store = &memStore{}
	}
	bus := engine.NewEventBus(cfg.mode)

	var svcOpts []engine.ServiceOption
	if cfg.clock != nil {
		svcOpts = append(svcOpts, engine.WithClock(cfg.clock))
	}
	svc := engine.NewService(cfg.store, bus, cfg.catalog, svcOpts...)

	if cfg.hub != nil {
		// Bridge all primary events to realtime
		for _, typ := range []core.EventType{
			core.EventAnswerRecorded,
			core.EventLevelUp,
			core.EventBadgeUnlocked,
			core.EventStreakExtended,
			core.EventStreakBroken,
			core.EventOnFire,
		} {
			bus.Subscribe(typ, func(ctx context.Context, e core.Event) { cfg.hub.Broadcast(ctx, e) })
		}
	}
	return svc
}

// memStore is a minimal local store mirroring adapters/memory, kept here to
// avoid an import cycle with the engine tests.
type memStore struct {
	mu   sync.Mutex
	data map[core.LearnerID]core.ProgressionSnapshot
}

func (s *memStore) Load(_ context.Context, learner core.LearnerID) (core.ProgressionSnapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.data[learner]
	if !ok {
		return core.ProgressionSnapshot{}, false, nil
	}
	return snap.Clone(), true, nil
}

func (s *memStore) Save(_ context.Context, learner core.LearnerID, snap core.ProgressionSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		s.data = map[core.LearnerID]core.ProgressionSnapshot{}
	}
	s.data[learner] = snap.Clone()
	return nil
}
