package analytics

import (
	"sync"

	"progresskit/core"
)

// Metrics aggregates progression KPIs from the event stream.
type Metrics struct {
	mu sync.RWMutex

	answersByDay map[string]int64
	correctByDay map[string]int64
	xpByDay      map[string]int64
	xpByConcept  map[string]int64

	badgeUnlocks  map[core.BadgeID]int64
	levelUps      map[int64]int64
	streaksBroken int64
	fireRuns      int64
}

func NewMetrics() *Metrics {
	return &Metrics{
		answersByDay: map[string]int64{},
		correctByDay: map[string]int64{},
		xpByDay:      map[string]int64{},
		xpByConcept:  map[string]int64{},
		badgeUnlocks: map[core.BadgeID]int64{},
		levelUps:     map[int64]int64{},
	}
}

func (m *Metrics) OnEvent(e core.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	day := dayKey(e.Time)
	switch e.Type {
	case core.EventAnswerRecorded:
		m.answersByDay[day]++
		if e.Correct {
			m.correctByDay[day]++
		}
		m.xpByDay[day] += e.XPGained
		if e.Concept != "" {
			m.xpByConcept[e.Concept] += e.XPGained
		}
	case core.EventBadgeUnlocked:
		m.badgeUnlocks[e.Badge]++
	case core.EventLevelUp:
		m.levelUps[e.Level]++
	case core.EventStreakBroken:
		m.streaksBroken++
	case core.EventOnFire:
		m.fireRuns++
	}
}

// Accuracy returns correct/answered for a day key, or 0 with no activity.
func (m *Metrics) Accuracy(day string) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	total := m.answersByDay[day]
	if total == 0 {
		return 0
	}
	return float64(m.correctByDay[day]) / float64(total)
}

func (m *Metrics) AnswersByDay(day string) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.answersByDay[day]
}

func (m *Metrics) XPByDay(day string) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.xpByDay[day]
}

func (m *Metrics) XPByConcept(concept string) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.xpByConcept[concept]
}

func (m *Metrics) BadgeUnlocks(badge core.BadgeID) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.badgeUnlocks[badge]
}

// LevelDistribution returns how many level-up events reached each level.
func (m *Metrics) LevelDistribution() map[int64]int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[int64]int64, len(m.levelUps))
	for k, v := range m.levelUps {
		out[k] = v
	}
	return out
}

func (m *Metrics) StreaksBroken() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.streaksBroken
}

func (m *Metrics) FireRuns() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fireRuns
}

var _ Hook = (*Metrics)(nil)
var _ Hook = (*DAL)(nil)
var _ Hook = (*Bridge)(nil)
