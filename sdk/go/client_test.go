package sdk

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	mem "progresskit/adapters/memory"
	"progresskit/api/httpapi"
	"progresskit/core"
	"progresskit/engine"
	"progresskit/leaderboard"
	"progresskit/progress"
	"progresskit/realtime"
)

var day1 = time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

// newTestServer stands up the real API on an in-memory store.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	hub := realtime.NewHub()
	svc := progress.New(
		progress.WithStore(mem.New()),
		progress.WithRealtime(hub),
		progress.WithDispatchMode(engine.DispatchSync),
		progress.WithClock(func() time.Time { return day1 }),
	)
	t.Cleanup(svc.Close)
	board := leaderboard.NewSkipList()
	leaderboard.Follow(board, svc)
	handler := httpapi.NewMux(svc, hub, board, httpapi.Options{PathPrefix: "/api"})
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_RecordAnswerGetLearnerHealth(t *testing.T) {
	srv := newTestServer(t)

	client, err := NewClient(srv.URL+"/api", WithAPIKey("k1"))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	ctx := context.Background()

	res, err := client.RecordAnswer(ctx, "alice", core.AnswerEvent{
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
		t.Fatalf("xp gained = %d, want 45", res.XPGained)
	}

	state, err := client.GetLearner(ctx, "alice")
	if err != nil {
		t.Fatalf("get learner: %v", err)
	}
	if state.TotalXP < 45 || state.Level != 1 || state.CurrentStreakDays != 1 {
		t.Fatalf("unexpected state: %+v", state)
	}

	health, err := client.Health(ctx)
	if err != nil || health.Status != "healthy" {
		t.Fatalf("health: %+v err=%v", health, err)
	}
}

func TestClient_BadgesAndLeaderboard(t *testing.T) {
	srv := newTestServer(t)

	client, err := NewClient(srv.URL + "/api")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	ctx := context.Background()

	badges, err := client.Badges(ctx)
	if err != nil {
		t.Fatalf("badges: %v", err)
	}
	if len(badges) == 0 {
		t.Fatal("expected a non-empty badge catalog")
	}

	if _, err := client.RecordAnswer(ctx, "bob", core.AnswerEvent{
		Concept: "algebra", Correct: true, DifficultyMarks: 5, AttemptNumber: 1, TimeTakenSeconds: 30, At: day1,
	}); err != nil {
		t.Fatalf("record answer: %v", err)
	}

	entries, err := client.Leaderboard(ctx, 5)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(entries) != 1 || entries[0].Learner != "bob" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestClient_RecordAnswerAPIError(t *testing.T) {
	srv := newTestServer(t)

	client, err := NewClient(srv.URL + "/api")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = client.RecordAnswer(context.Background(), "carol", core.AnswerEvent{
		Concept: "algebra", Correct: true, DifficultyMarks: 0, AttemptNumber: 1, TimeTakenSeconds: 10, At: day1,
	})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != "invalid_input" || apiErr.Status != 400 {
		t.Fatalf("unexpected api error: %+v", apiErr)
	}
}

func TestClient_SubscribeEvents(t *testing.T) {
	srv := newTestServer(t)

	client, err := NewClient(srv.URL + "/api")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	events, err := client.SubscribeEvents(ctx)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	if _, err := client.RecordAnswer(ctx, "dana", core.AnswerEvent{
		Concept: "fractions", Correct: true, DifficultyMarks: 2, AttemptNumber: 1, TimeTakenSeconds: 15, At: day1,
	}); err != nil {
		t.Fatalf("record answer: %v", err)
	}

	for {
		select {
		case evt := <-events:
			if evt.Type == core.EventAnswerRecorded && evt.Learner == "dana" {
				return
			}
		case <-ctx.Done():
			t.Fatal("timed out waiting for event")
		}
	}
}

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient("  "); err == nil {
		t.Fatal("expected error for empty base URL")
	}
	c, err := NewClient("http://localhost:8080/api/")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if c.wsURL != "ws://localhost:8080/api/ws" {
		t.Fatalf("wsURL = %q", c.wsURL)
	}
}
