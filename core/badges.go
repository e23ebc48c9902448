package core

// Badge is a static catalog entry. The predicate is a pure function of the
// snapshot; it must not close over mutable state so that evaluation order
// and idempotency stay reproducible.
type Badge struct {
	ID          BadgeID `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	XPBonus     int64   `json:"xp_bonus"`

	Predicate func(ProgressionSnapshot) bool `json:"-"`
}

// DefaultCatalog returns the ordered badge catalog. Catalog order is
// evaluation order. Badge bonuses add to the XP an answer itself earns:
// with this catalog a learner's very first correct answer also unlocks
// first-steps, so their total lands 10 XP above the answer's own gain.
// Pass a custom catalog (or nil) to score answers without bonuses.
func DefaultCatalog() []Badge {
	return []Badge{
		{
			ID:          "first-steps",
			Name:        "First Steps",
			Description: "Answer your first question correctly",
			XPBonus:     10,
			Predicate:   func(s ProgressionSnapshot) bool { return s.TotalXP > 0 },
		},
		{
			ID:          "on-fire",
			Name:        "On Fire",
			Description: "Answer 3 questions correctly in a row",
			XPBonus:     25,
			Predicate:   func(s ProgressionSnapshot) bool { return s.FireStreak >= FireThreshold },
		},
		{
			ID:          "perfect-ten",
			Name:        "Perfect Ten",
			Description: "Answer 10 questions correctly in one day",
			XPBonus:     50,
			Predicate:   func(s ProgressionSnapshot) bool { return s.CorrectToday >= 10 },
		},
		{
			ID:          "week-warrior",
			Name:        "Week Warrior",
			Description: "Keep a 7-day study streak",
			XPBonus:     150,
			Predicate:   func(s ProgressionSnapshot) bool { return s.CurrentStreakDays >= 7 },
		},
		{
			ID:          "dedicated",
			Name:        "Dedicated",
			Description: "Keep a 30-day study streak",
			XPBonus:     500,
			Predicate:   func(s ProgressionSnapshot) bool { return s.CurrentStreakDays >= 30 },
		},
		{
			ID:          "level-5",
			Name:        "Rising Star",
			Description: "Reach level 5",
			XPBonus:     100,
			Predicate:   func(s ProgressionSnapshot) bool { return s.Level >= 5 },
		},
		{
			ID:          "level-10",
			Name:        "High Achiever",
			Description: "Reach level 10",
			XPBonus:     250,
			Predicate:   func(s ProgressionSnapshot) bool { return s.Level >= 10 },
		},
		{
			ID:          "polymath",
			Name:        "Polymath",
			Description: "Earn 100 mastery XP in 5 different concepts",
			XPBonus:     200,
			Predicate: func(s ProgressionSnapshot) bool {
				n := 0
				for _, xp := range s.ConceptMastery {
					if xp >= 100 {
						n++
					}
				}
				return n >= 5
			},
		},
		{
			ID:          "scholar",
			Name:        "Scholar",
			Description: "Accumulate 2500 total XP",
			XPBonus:     0,
			Predicate:   func(s ProgressionSnapshot) bool { return s.TotalXP >= 2500 },
		},
	}
}

// EvaluateBadges walks the catalog in order and unlocks every badge whose id
// is not yet in UnlockedBadges and whose predicate holds. Idempotency is
// keyed purely on id membership, so a non-monotonic predicate can never
// re-fire once unlocked. XP bonuses are summed and applied in one step with
// a single level recompute; evaluation order only affects the order of the
// returned slice, never the final XP total.
func EvaluateBadges(s *ProgressionSnapshot, catalog []Badge) []Badge {
	var unlocked []Badge
	var bonus int64
	for _, b := range catalog {
		if s.HasBadge(b.ID) || b.Predicate == nil || !b.Predicate(*s) {
			continue
		}
		next, err := AddSafe(bonus, b.XPBonus)
		if err != nil {
			break
		}
		bonus = next
		s.UnlockedBadges = append(s.UnlockedBadges, b.ID)
		unlocked = append(unlocked, b)
	}
	if bonus > 0 {
		if total, err := AddSafe(s.TotalXP, bonus); err == nil {
			s.TotalXP = total
			s.Level = LevelOf(s.TotalXP)
		}
	}
	return unlocked
}
