package core

import "time"

// Calendar-day streak logic. Day comparisons use calendar-date difference in
// UTC, never wall-clock elapsed time, so a 23:59 -> 00:01 pair still counts
// as consecutive days and DST shifts cannot split a day in two.

// DateOf truncates t to its UTC calendar date at midnight.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DayDiff returns the whole calendar days from a to b (negative if b is
// earlier than a).
func DayDiff(a, b time.Time) int {
	return int(DateOf(b).Sub(DateOf(a)).Hours() / 24)
}

// StreakChange reports what ApplyActivity did to the day streak.
type StreakChange struct {
	// Extended is true when the streak grew (including a fresh start at 1).
	Extended bool
	// Broken is true when a gap of more than one day reset the streak.
	Broken bool
	// RolledOver is true when the calendar date advanced and the daily
	// counters were reset before the new event's increment.
	RolledOver bool
}

// ApplyActivity updates the day streak for an answer recorded at now.
// Any activity counts toward streak continuation, correct or not.
// A negative day gap (clock skew) is a deliberate no-op: the snapshot must
// never be corrupted by a misbehaving clock.
func ApplyActivity(s *ProgressionSnapshot, now time.Time) StreakChange {
	day := DateOf(now)
	var ch StreakChange

	if s.LastActiveDate.IsZero() {
		s.CurrentStreakDays = 1
		ch.Extended = true
		ch.RolledOver = true
	} else {
		switch gap := DayDiff(s.LastActiveDate, day); {
		case gap < 0:
			return ch
		case gap == 0:
			// already counted today
		case gap == 1:
			s.CurrentStreakDays++
			ch.Extended = true
			ch.RolledOver = true
		default:
			s.CurrentStreakDays = 1
			ch.Broken = true
			ch.RolledOver = true
		}
	}

	if ch.RolledOver {
		s.QuestionsToday = 0
		s.CorrectToday = 0
	}
	s.LastActiveDate = day
	if s.CurrentStreakDays > s.LongestStreakDays {
		s.LongestStreakDays = s.CurrentStreakDays
	}
	return ch
}
