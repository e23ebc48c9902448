package progress

import (
	"context"
	"testing"
	"time"

	mem "progresskit/adapters/memory"
	"progresskit/core"
	"progresskit/engine"
	"progresskit/realtime"
)

var day1 = time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

func TestNewDefaultsAndOptions(t *testing.T) {
	hub := realtime.NewHub()
	svc := New(
		WithRealtime(hub),
		WithStore(mem.New()),
		WithDispatchMode(engine.DispatchSync),
		WithClock(func() time.Time { return day1 }),
	)
	defer svc.Close()

	_, ch := hub.Subscribe(8)

	res, err := svc.RecordAnswer(context.Background(), "alice", core.AnswerEvent{
		Concept:          "algebra",
		Correct:          true,
		DifficultyMarks:  3,
		AttemptNumber:    1,
		TimeTakenSeconds: 20,
		At:               day1,
	})
	if err != nil {
		t.Fatalf("record answer: %v", err)
	}
	if res.XPGained != 45 {
		t.Fatalf("xp = %d, want 45", res.XPGained)
	}

	// realtime bridge should receive the answer event
	ev := <-ch
	if ev.Learner != "alice" || ev.Type != core.EventAnswerRecorded {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestInMemoryFallback(t *testing.T) {
	svc := New(WithDispatchMode(engine.DispatchSync), WithClock(func() time.Time { return day1 }))
	defer svc.Close()

	if _, err := svc.RecordAnswer(context.Background(), "bob", core.AnswerEvent{
		Concept: "geometry", Correct: true, DifficultyMarks: 1, AttemptNumber: 2, TimeTakenSeconds: 90, At: day1,
	}); err != nil {
		t.Fatalf("fallback record: %v", err)
	}
	snap, err := svc.GetSnapshot(context.Background(), "bob")
	if err != nil {
		t.Fatalf("fallback snapshot: %v", err)
	}
	if snap.TotalXP < 10 {
		t.Fatalf("expected at least base xp, got %d", snap.TotalXP)
	}
	if snap.CurrentStreakDays != 1 {
		t.Fatalf("streak = %d, want 1", snap.CurrentStreakDays)
	}
}

func TestDefaultCatalogApplies(t *testing.T) {
	svc := New(WithDispatchMode(engine.DispatchSync), WithClock(func() time.Time { return day1 }))
	defer svc.Close()

	res, err := svc.RecordAnswer(context.Background(), "cleo", core.AnswerEvent{
		Concept: "algebra", Correct: true, DifficultyMarks: 2, AttemptNumber: 1, TimeTakenSeconds: 30, At: day1,
	})
	if err != nil {
		t.Fatalf("record answer: %v", err)
	}
	found := false
	for _, b := range res.NewBadges {
		if b.ID == "first-steps" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected first-steps badge, got %+v", res.NewBadges)
	}
}
