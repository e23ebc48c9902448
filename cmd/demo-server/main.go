package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	mem "progresskit/adapters/memory"
	ws "progresskit/adapters/websocket"
	"progresskit/core"
	"progresskit/engine"
	"progresskit/leaderboard"
	"progresskit/progress"
	"progresskit/realtime"
)

func main() {
	// Use readable text logging for development/demo
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(textHandler))

	ctx := context.Background()
	hub := realtime.NewHub()
	svc := progress.New(
		progress.WithStore(mem.New()),
		progress.WithRealtime(hub),
		progress.WithDispatchMode(engine.DispatchAsync),
	)
	board := leaderboard.NewSkipList()
	leaderboard.Follow(board, svc)

	http.Handle("/ws", ws.Handler(hub))
	http.HandleFunc("/leaderboard", func(w http.ResponseWriter, r *http.Request) {
		n, _ := strconv.Atoi(r.URL.Query().Get("n"))
		if n <= 0 {
			n = 10
		}
		writeJSON(w, board.TopN(n))
	})
	http.HandleFunc("/learners/", func(w http.ResponseWriter, r *http.Request) {
		// routes: POST /learners/{id}/answers (JSON body), GET /learners/{id}
		parts := split(r.URL.Path, '/')
		if len(parts) < 2 {
			http.NotFound(w, r)
			return
		}
		learner := core.LearnerID(parts[1])
		switch r.Method {
		case http.MethodPost:
			if len(parts) >= 3 && parts[2] == "answers" {
				var ev core.AnswerEvent
				if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
					http.Error(w, err.Error(), http.StatusBadRequest)
					return
				}
				res, err := svc.RecordAnswer(ctx, learner, ev)
				writeJSON(w, map[string]any{"result": res, "err": errString(err)})
				return
			}
		case http.MethodGet:
			snap, err := svc.GetSnapshot(ctx, learner)
			if err != nil {
				http.Error(w, err.Error(), 500)
				return
			}
			writeJSON(w, snap)
			return
		}
		http.NotFound(w, r)
	})

	slog.Info("starting demo server on :8080")

	if err := http.ListenAndServe(":8080", nil); err != nil {
		slog.Error("demo server crashed", "error", err)
		os.Exit(1)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func errString(err error) any {
	if err == nil {
		return nil
	}
	return err.Error()
}

func split(p string, sep rune) []string {
	var parts []string
	current := make([]rune, 0, len(p))

	for _, r := range p {
		if r == sep {
			if len(current) > 0 {
				parts = append(parts, string(current))
				current = current[:0]
			}
			continue
		}
		current = append(current, r)
	}

	if len(current) > 0 {
		parts = append(parts, string(current))
	}

	return parts
}
