package webhook

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"progresskit/core"
)

func TestOnEventPostsToAllEndpoints(t *testing.T) {
	received := make([]core.Event, 0, 2)
	handler := func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var ev core.Event
		if err := json.Unmarshal(body, &ev); err != nil {
			t.Errorf("bad payload: %v", err)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		received = append(received, ev)
	}
	srv1 := httptest.NewServer(http.HandlerFunc(handler))
	defer srv1.Close()
	srv2 := httptest.NewServer(http.HandlerFunc(handler))
	defer srv2.Close()

	sink := New([]string{srv1.URL, srv2.URL})
	sink.OnEvent(core.NewBadgeUnlocked("amira", "week-warrior", 150))

	if len(received) != 2 {
		t.Fatalf("deliveries = %d, want 2", len(received))
	}
	if received[0].Badge != "week-warrior" {
		t.Fatalf("unexpected event: %+v", received[0])
	}
}

func TestOnEventNoEndpointsIsNoop(t *testing.T) {
	sink := New(nil)
	sink.OnEvent(core.NewLevelUp("amira", 2, 120)) // must not panic
}

func TestOnEventSurvivesDownEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // deliberately dead
	sink := New([]string{srv.URL})
	sink.OnEvent(core.NewOnFire("amira", 3)) // must not panic or block
}
