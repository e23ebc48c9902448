package jsonfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"progresskit/core"
	"progresskit/engine"
)

func TestRoundTripAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")
	ctx := context.Background()

	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	snap := core.NewSnapshot("amira")
	snap.TotalXP = 395
	snap.Level = core.LevelOf(snap.TotalXP)
	snap.CurrentStreakDays = 8
	snap.LongestStreakDays = 8
	snap.ConceptMastery["algebra"] = 395
	snap.UnlockedBadges = []core.BadgeID{"week-warrior"}
	if err := s.Save(ctx, "amira", snap); err != nil {
		t.Fatal(err)
	}

	// a fresh store over the same file must see the data
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	got, ok, err := s2.Load(ctx, "amira")
	if err != nil || !ok {
		t.Fatalf("load after reopen: ok=%v err=%v", ok, err)
	}
	if got.TotalXP != 395 || got.CurrentStreakDays != 8 || !got.HasBadge("week-warrior") {
		t.Fatalf("round trip lost data: %+v", got)
	}
}

func TestMissingFileIsEmptyStore(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatal(err)
	}
	_, ok, err := s.Load(context.Background(), "amira")
	if err != nil || ok {
		t.Fatalf("want empty store, got ok=%v err=%v", ok, err)
	}
}

func TestFailedSaveKeepsLastPersisted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")
	ctx := context.Background()

	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	snap := core.NewSnapshot("amira")
	snap.TotalXP = 10
	if err := s.Save(ctx, "amira", snap); err != nil {
		t.Fatal(err)
	}

	// occupy the tmp path with a directory so the next write fails
	if err := os.Mkdir(path+".tmp", 0o755); err != nil {
		t.Fatal(err)
	}
	snap.TotalXP = 999
	if err := s.Save(ctx, "amira", snap); err == nil {
		t.Fatal("expected save to fail")
	}

	got, ok, err := s.Load(ctx, "amira")
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if got.TotalXP != 10 {
		t.Fatalf("TotalXP = %d, want 10 (the last persisted value)", got.TotalXP)
	}

	// a learner whose first save fails must stay absent
	if err := s.Save(ctx, "badr", core.NewSnapshot("badr")); err == nil {
		t.Fatal("expected save to fail")
	}
	if _, ok, _ := s.Load(ctx, "badr"); ok {
		t.Fatal("unpersisted learner leaked into the store")
	}
}

func TestCorruptFileReported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := New(path)
	if !errors.Is(err, engine.ErrCorruptSnapshot) {
		t.Fatalf("want ErrCorruptSnapshot, got %v", err)
	}
}
