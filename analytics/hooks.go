package analytics

import (
	"context"
	"sync"
	"time"

	"progresskit/core"
)

// Hook receives domain events for KPI aggregation.
type Hook interface {
	OnEvent(e core.Event)
}

// Bridge fans one event source out to multiple hooks.
type Bridge struct{ hooks []Hook }

func NewBridge(hooks ...Hook) *Bridge { return &Bridge{hooks: hooks} }

func (b *Bridge) OnEvent(e core.Event) {
	for _, h := range b.hooks {
		h.OnEvent(e)
	}
}

// Attach subscribes a hook to every progression event type on the bus and
// returns a func that unsubscribes all of them.
func Attach(h Hook, sub interface {
	Subscribe(core.EventType, func(context.Context, core.Event)) func()
}) func() {
	types := []core.EventType{
		core.EventAnswerRecorded,
		core.EventLevelUp,
		core.EventBadgeUnlocked,
		core.EventStreakExtended,
		core.EventStreakBroken,
		core.EventOnFire,
	}
	unsubs := make([]func(), 0, len(types))
	for _, typ := range types {
		unsubs = append(unsubs, sub.Subscribe(typ, func(_ context.Context, e core.Event) { h.OnEvent(e) }))
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

// DAL tracks daily active learners.
type DAL struct {
	mu   sync.Mutex
	days map[string]map[core.LearnerID]struct{}
}

func NewDAL() *DAL { return &DAL{days: map[string]map[core.LearnerID]struct{}{}} }

func (d *DAL) OnEvent(e core.Event) {
	day := e.Time.UTC().Format("2006-01-02")
	d.mu.Lock()
	defer d.mu.Unlock()
	m := d.days[day]
	if m == nil {
		m = map[core.LearnerID]struct{}{}
		d.days[day] = m
	}
	m[e.Learner] = struct{}{}
}

func (d *DAL) Count(day string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.days[day])
}

func dayKey(t time.Time) string { return t.UTC().Format("2006-01-02") }
