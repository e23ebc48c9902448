package sdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// LearnerState mirrors the public JSON surface of the learner endpoint.
type LearnerState struct {
	TotalXP           int64            `json:"total_xp"`
	Level             int64            `json:"level"`
	CurrentStreakDays int64            `json:"current_streak_days"`
	LongestStreakDays int64            `json:"longest_streak_days"`
	LastActiveDate    time.Time        `json:"last_active_date,omitempty"`
	FireStreak        int64            `json:"fire_streak"`
	QuestionsToday    int64            `json:"questions_today"`
	CorrectToday      int64            `json:"correct_today"`
	ConceptMastery    map[string]int64 `json:"concept_mastery"`
	UnlockedBadges    []string         `json:"unlocked_badges"`
	Updated           time.Time        `json:"updated"`
	IsOnFire          bool             `json:"is_on_fire"`
	LevelProgress     float64          `json:"level_progress"`
}

// BadgeInfo describes one catalog badge.
type BadgeInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	XPBonus     int64  `json:"xp_bonus"`
}

// LeaderboardEntry ranks one learner by cumulative XP.
type LeaderboardEntry struct {
	Learner string `json:"learner_id"`
	XP      int64  `json:"xp"`
}

// HealthStatus describes the /healthz response.
type HealthStatus struct {
	Status string                 `json:"status"`
	Checks map[string]interface{} `json:"checks"`
}

// APIError is the structured error body returned by the server.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %s (status %d): %s", e.Code, e.Status, e.Message)
}

func decodeJSON(resp *http.Response, target any) error {
	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var apiErr APIError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Code != "" {
			apiErr.Status = resp.StatusCode
			return &apiErr
		}
		return fmt.Errorf("request failed: status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(target)
}

// ErrEmptyLearnerID is returned when learner id is empty.
var ErrEmptyLearnerID = errors.New("learner id is required")
