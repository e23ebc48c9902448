package core

import "time"

// EventType enumerates domain events.
type EventType string

const (
	EventAnswerRecorded EventType = "answer_recorded"
	EventLevelUp        EventType = "level_up"
	EventBadgeUnlocked  EventType = "badge_unlocked"
	EventStreakExtended EventType = "streak_extended"
	EventStreakBroken   EventType = "streak_broken"
	EventOnFire         EventType = "on_fire"
)

// Event represents an immutable domain event.
type Event struct {
	Type       EventType      `json:"type"`
	Time       time.Time      `json:"time"`
	Learner    LearnerID      `json:"learner_id"`
	Concept    string         `json:"concept,omitempty"`
	Correct    bool           `json:"correct,omitempty"`
	XPGained   int64          `json:"xp_gained,omitempty"`
	TotalXP    int64          `json:"total_xp,omitempty"`
	Level      int64          `json:"level,omitempty"`
	Badge      BadgeID        `json:"badge,omitempty"`
	StreakDays int64          `json:"streak_days,omitempty"`
	FireStreak int64          `json:"fire_streak,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

func NewAnswerRecorded(learner LearnerID, concept string, correct bool, xpGained, totalXP int64) Event {
	return Event{Type: EventAnswerRecorded, Time: time.Now().UTC(), Learner: learner, Concept: concept, Correct: correct, XPGained: xpGained, TotalXP: totalXP}
}

func NewLevelUp(learner LearnerID, level, totalXP int64) Event {
	return Event{Type: EventLevelUp, Time: time.Now().UTC(), Learner: learner, Level: level, TotalXP: totalXP}
}

func NewBadgeUnlocked(learner LearnerID, badge BadgeID, bonus int64) Event {
	return Event{Type: EventBadgeUnlocked, Time: time.Now().UTC(), Learner: learner, Badge: badge, XPGained: bonus}
}

func NewStreakExtended(learner LearnerID, days int64) Event {
	return Event{Type: EventStreakExtended, Time: time.Now().UTC(), Learner: learner, StreakDays: days}
}

func NewStreakBroken(learner LearnerID, days int64) Event {
	return Event{Type: EventStreakBroken, Time: time.Now().UTC(), Learner: learner, StreakDays: days}
}

func NewOnFire(learner LearnerID, fireStreak int64) Event {
	return Event{Type: EventOnFire, Time: time.Now().UTC(), Learner: learner, FireStreak: fireStreak}
}
