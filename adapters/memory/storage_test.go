package memory

import (
	"context"
	"testing"
	"time"

	"progresskit/core"
)

func TestLoadMissing(t *testing.T) {
	s := New()
	_, ok, err := s.Load(context.Background(), "amira")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("missing learner reported as present")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := New()
	ctx := context.Background()

	snap := core.NewSnapshot("amira")
	snap.TotalXP = 245
	snap.Level = core.LevelOf(snap.TotalXP)
	snap.CurrentStreakDays = 4
	snap.LongestStreakDays = 9
	snap.LastActiveDate = core.DateOf(time.Now())
	snap.ConceptMastery["algebra"] = 200
	snap.UnlockedBadges = []core.BadgeID{"first-steps", "on-fire"}

	if err := s.Save(ctx, "amira", snap); err != nil {
		t.Fatal(err)
	}
	got, ok, err := s.Load(ctx, "amira")
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if got.TotalXP != 245 || got.ConceptMastery["algebra"] != 200 || len(got.UnlockedBadges) != 2 {
		t.Fatalf("round trip lost data: %+v", got)
	}

	// stored copy must be isolated from the caller's value
	snap.ConceptMastery["algebra"] = 0
	got2, _, _ := s.Load(ctx, "amira")
	if got2.ConceptMastery["algebra"] != 200 {
		t.Fatal("store shares maps with caller")
	}
}

func TestConcurrentSaves(t *testing.T) {
	s := New()
	ctx := context.Background()
	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func(n int) {
			defer func() { done <- struct{}{} }()
			snap := core.NewSnapshot("amira")
			snap.TotalXP = int64(n)
			_ = s.Save(ctx, "amira", snap)
			_, _, _ = s.Load(ctx, "amira")
		}(i)
	}
	for i := 0; i < 8; i++ {
		<-done
	}
	close(done)
	if _, ok, _ := s.Load(ctx, "amira"); !ok {
		t.Fatal("snapshot lost under concurrent access")
	}
}
