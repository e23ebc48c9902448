package core

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// LearnerID uniquely identifies a learner in the progression domain.
type LearnerID string

// BadgeID is a stable identifier of a catalog badge.
type BadgeID string

// ErrInvalidInput marks contract violations in caller-supplied values.
// Errors of this kind are rejected before any snapshot mutation.
var ErrInvalidInput = errors.New("invalid input")

// FireThreshold is the consecutive-correct count at which a learner is "on fire".
const FireThreshold = 3

// ProgressionSnapshot is the complete persisted state for one learner.
// Implementations should return deep copies to maintain immutability guarantees.
type ProgressionSnapshot struct {
	LearnerID LearnerID `json:"learner_id"`

	TotalXP int64 `json:"total_xp"`
	// Level is derived from TotalXP and cached for display; it is recomputed
	// after every XP mutation and never trusted as independent ground truth.
	Level int64 `json:"level"`

	CurrentStreakDays int64 `json:"current_streak_days"`
	LongestStreakDays int64 `json:"longest_streak_days"`
	// LastActiveDate holds the calendar date (UTC, midnight) of the last
	// recorded answer. The zero time means the learner was never active.
	LastActiveDate time.Time `json:"last_active_date,omitempty"`

	FireStreak     int64 `json:"fire_streak"`
	QuestionsToday int64 `json:"questions_today"`
	CorrectToday   int64 `json:"correct_today"`

	ConceptMastery map[string]int64 `json:"concept_mastery"`
	// UnlockedBadges is append-only and ordered by unlock time; a badge id
	// appears at most once.
	UnlockedBadges []BadgeID `json:"unlocked_badges"`

	Updated time.Time `json:"updated"`
}

// NewSnapshot returns the default snapshot for a first-time learner.
func NewSnapshot(learner LearnerID) ProgressionSnapshot {
	return ProgressionSnapshot{
		LearnerID:      learner,
		Level:          1,
		ConceptMastery: map[string]int64{},
		Updated:        time.Now().UTC(),
	}
}

// Clone returns a deep copy of the snapshot to uphold immutability.
func (s ProgressionSnapshot) Clone() ProgressionSnapshot {
	cp := s
	cp.ConceptMastery = make(map[string]int64, len(s.ConceptMastery))
	for k, v := range s.ConceptMastery {
		cp.ConceptMastery[k] = v
	}
	cp.UnlockedBadges = append([]BadgeID(nil), s.UnlockedBadges...)
	return cp
}

// IsOnFire reports whether the current fire streak has reached the threshold.
// Always derived from FireStreak, never stored.
func (s ProgressionSnapshot) IsOnFire() bool { return s.FireStreak >= FireThreshold }

// HasBadge reports whether the badge id has already been unlocked.
func (s ProgressionSnapshot) HasBadge(id BadgeID) bool {
	for _, b := range s.UnlockedBadges {
		if b == id {
			return true
		}
	}
	return false
}

// AnswerEvent describes one answered question as reported by the caller.
type AnswerEvent struct {
	Concept          string `json:"concept"`
	Correct          bool   `json:"correct"`
	DifficultyMarks  int    `json:"difficulty_marks"`
	AttemptNumber    int    `json:"attempt_number"`
	TimeTakenSeconds int    `json:"time_taken_seconds"`
	// At is the event time; callers that omit it get the engine clock.
	At time.Time `json:"at,omitempty"`
}

// Validate rejects malformed events before any state is touched.
func (e AnswerEvent) Validate() error {
	if strings.TrimSpace(e.Concept) == "" {
		return fmt.Errorf("%w: empty concept", ErrInvalidInput)
	}
	if e.DifficultyMarks <= 0 {
		return fmt.Errorf("%w: difficulty_marks must be positive, got %d", ErrInvalidInput, e.DifficultyMarks)
	}
	if e.AttemptNumber <= 0 {
		return fmt.Errorf("%w: attempt_number must be positive, got %d", ErrInvalidInput, e.AttemptNumber)
	}
	if e.TimeTakenSeconds < 0 {
		return fmt.Errorf("%w: time_taken_seconds must be non-negative, got %d", ErrInvalidInput, e.TimeTakenSeconds)
	}
	return nil
}

// AnswerResult summarizes the effect of one RecordAnswer call for the caller.
type AnswerResult struct {
	XPGained   int64   `json:"xp_gained"`
	LeveledUp  bool    `json:"leveled_up"`
	NewLevel   int64   `json:"new_level"`
	NewBadges  []Badge `json:"new_badges,omitempty"`
	IsOnFire   bool    `json:"is_on_fire"`
	FireStreak int64   `json:"fire_streak"`
	StreakDays int64   `json:"streak_days"`
}

// AddSafe adds delta to base ensuring no signed overflow occurs.
func AddSafe(base int64, delta int64) (int64, error) {
	if (delta > 0 && base > math.MaxInt64-delta) || (delta < 0 && base < math.MinInt64-delta) {
		return 0, errors.New("integer overflow in AddSafe")
	}
	return base + delta, nil
}

// NormalizeLearnerID trims and lowercases learner identifiers.
func NormalizeLearnerID(id LearnerID) (LearnerID, error) {
	s := strings.TrimSpace(string(id))
	if s == "" {
		return "", fmt.Errorf("%w: empty learner id", ErrInvalidInput)
	}
	return LearnerID(strings.ToLower(s)), nil
}

// ValidateBadgeID ensures non-empty badge id with simple charset check.
func ValidateBadgeID(b BadgeID) error {
	s := strings.TrimSpace(string(b))
	if s == "" {
		return fmt.Errorf("%w: empty badge id", ErrInvalidInput)
	}
	// simple check: alnum, dash, underscore
	for _, r := range s {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_' {
			continue
		}
		return fmt.Errorf("%w: invalid badge id %q", ErrInvalidInput, s)
	}
	return nil
}
