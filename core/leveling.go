package core

import "math"

// Levels follow a triangular cost curve: clearing level L costs levelCost*L XP,
// so the cumulative XP required to reach level L is levelCost*L*(L-1).
// Early levels stay cheap while later levels grow linearly more expensive.
const levelCost = 50

// XPThreshold returns the cumulative XP required to reach the given level.
func XPThreshold(level int64) int64 {
	if level <= 1 {
		return 0
	}
	return levelCost * level * (level - 1)
}

// LevelOf maps cumulative XP onto a level >= 1. It inverts the triangular
// threshold via the quadratic root and then nudges against XPThreshold to
// rule out float rounding at the boundaries. Negative XP is a programming
// error and panics rather than silently clamping.
func LevelOf(totalXP int64) int64 {
	if totalXP < 0 {
		panic("core: LevelOf called with negative XP")
	}
	lvl := int64((5 + math.Sqrt(float64(25+2*totalXP))) / 10)
	if lvl < 1 {
		lvl = 1
	}
	for XPThreshold(lvl+1) <= totalXP {
		lvl++
	}
	for lvl > 1 && XPThreshold(lvl) > totalXP {
		lvl--
	}
	return lvl
}

// LevelProgress returns fractional progress in [0,1] toward the next level.
func LevelProgress(totalXP int64) float64 {
	lvl := LevelOf(totalXP)
	lo, hi := XPThreshold(lvl), XPThreshold(lvl+1)
	p := float64(totalXP-lo) / float64(hi-lo)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
