package core

import "testing"

func TestXPThreshold(t *testing.T) {
	cases := []struct {
		level int64
		want  int64
	}{
		{0, 0},
		{1, 0},
		{2, 100},
		{3, 300},
		{4, 600},
		{5, 1000},
		{10, 4500},
	}
	for _, c := range cases {
		if got := XPThreshold(c.level); got != c.want {
			t.Fatalf("XPThreshold(%d) = %d, want %d", c.level, got, c.want)
		}
	}
}

func TestLevelOfBrackets(t *testing.T) {
	for xp := int64(0); xp <= 20000; xp++ {
		lvl := LevelOf(xp)
		if lvl < 1 {
			t.Fatalf("LevelOf(%d) = %d, below 1", xp, lvl)
		}
		if XPThreshold(lvl) > xp || xp >= XPThreshold(lvl+1) {
			t.Fatalf("LevelOf(%d) = %d violates threshold bracket [%d,%d)",
				xp, lvl, XPThreshold(lvl), XPThreshold(lvl+1))
		}
	}
}

func TestLevelOfMonotonic(t *testing.T) {
	prev := int64(1)
	for xp := int64(0); xp <= 20000; xp++ {
		lvl := LevelOf(xp)
		if lvl < prev {
			t.Fatalf("LevelOf decreased at xp=%d: %d -> %d", xp, prev, lvl)
		}
		prev = lvl
	}
}

func TestLevelOfBoundaries(t *testing.T) {
	cases := []struct {
		xp   int64
		want int64
	}{
		{0, 1},
		{45, 1},
		{99, 1},
		{100, 2},
		{299, 2},
		{300, 3},
		{999, 4},
		{1000, 5},
		{4500, 10},
	}
	for _, c := range cases {
		if got := LevelOf(c.xp); got != c.want {
			t.Fatalf("LevelOf(%d) = %d, want %d", c.xp, got, c.want)
		}
	}
}

func TestLevelOfNegativePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for negative XP")
		}
	}()
	LevelOf(-1)
}

func TestLevelProgress(t *testing.T) {
	if p := LevelProgress(0); p != 0 {
		t.Fatalf("LevelProgress(0) = %v, want 0", p)
	}
	if p := LevelProgress(50); p != 0.5 {
		t.Fatalf("LevelProgress(50) = %v, want 0.5", p)
	}
	if p := LevelProgress(100); p != 0 {
		t.Fatalf("LevelProgress(100) = %v, want 0 at fresh level", p)
	}
	for xp := int64(0); xp < 5000; xp += 7 {
		p := LevelProgress(xp)
		if p < 0 || p > 1 {
			t.Fatalf("LevelProgress(%d) = %v out of [0,1]", xp, p)
		}
	}
}
