package websocket

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorillaws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"progresskit/core"
	"progresskit/realtime"
)

func TestHandlerStreamsEvents(t *testing.T) {
	hub := realtime.NewHub()
	srv := httptest.NewServer(Handler(hub))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := gorillaws.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// give the handler a moment to subscribe before broadcasting
	time.Sleep(50 * time.Millisecond)
	hub.Broadcast(context.Background(), core.NewBadgeUnlocked("amira", "week-warrior", 150))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var ev core.Event
	require.NoError(t, json.Unmarshal(msg, &ev))
	require.Equal(t, core.EventBadgeUnlocked, ev.Type)
	require.Equal(t, core.BadgeID("week-warrior"), ev.Badge)
	require.Equal(t, int64(150), ev.XPGained)
}
