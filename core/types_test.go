package core

import (
	"errors"
	"math"
	"testing"
)

func TestAddSafe(t *testing.T) {
	if v, err := AddSafe(10, 5); err != nil || v != 15 {
		t.Fatalf("got %v %v", v, err)
	}
	if _, err := AddSafe(math.MaxInt64, 1); err == nil {
		t.Fatalf("expected overflow")
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := NewSnapshot("amira")
	s.ConceptMastery["algebra"] = 50
	s.UnlockedBadges = append(s.UnlockedBadges, "first-steps")

	cp := s.Clone()
	cp.ConceptMastery["algebra"] = 999
	cp.UnlockedBadges[0] = "tampered"

	if s.ConceptMastery["algebra"] != 50 {
		t.Fatal("clone shares mastery map")
	}
	if s.UnlockedBadges[0] != "first-steps" {
		t.Fatal("clone shares badge slice")
	}
}

func TestAnswerEventValidate(t *testing.T) {
	ok := AnswerEvent{Concept: "algebra", Correct: true, DifficultyMarks: 2, AttemptNumber: 1}
	if err := ok.Validate(); err != nil {
		t.Fatalf("valid event rejected: %v", err)
	}
	bad := []AnswerEvent{
		{Concept: "", DifficultyMarks: 1, AttemptNumber: 1},
		{Concept: "x", DifficultyMarks: 0, AttemptNumber: 1},
		{Concept: "x", DifficultyMarks: 1, AttemptNumber: 0},
		{Concept: "x", DifficultyMarks: 1, AttemptNumber: 1, TimeTakenSeconds: -1},
	}
	for i, e := range bad {
		err := e.Validate()
		if err == nil {
			t.Fatalf("case %d: expected error", i)
		}
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("case %d: error not classed as invalid input: %v", i, err)
		}
	}
}

func TestNormalizeLearnerID(t *testing.T) {
	if id, err := NormalizeLearnerID("  Amira "); err != nil || id != "amira" {
		t.Fatalf("got %q %v", id, err)
	}
	if _, err := NormalizeLearnerID("   "); err == nil {
		t.Fatal("expected error for blank id")
	}
}

func TestIsOnFireDerived(t *testing.T) {
	s := NewSnapshot("amira")
	for fs, want := range map[int64]bool{0: false, 2: false, 3: true, 9: true} {
		s.FireStreak = fs
		if s.IsOnFire() != want {
			t.Fatalf("FireStreak=%d IsOnFire=%v, want %v", fs, s.IsOnFire(), want)
		}
	}
}
