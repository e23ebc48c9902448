package engine

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"progresskit/core"
)

func TestEventBusSyncDispatch(t *testing.T) {
	bus := NewEventBus(DispatchSync)
	defer bus.Close()

	var got int32
	unsub := bus.Subscribe(core.EventLevelUp, func(_ context.Context, e core.Event) {
		atomic.AddInt32(&got, 1)
	})

	bus.Publish(context.Background(), core.NewLevelUp("amira", 2, 120))
	bus.Publish(context.Background(), core.NewAnswerRecorded("amira", "algebra", true, 10, 130))
	if atomic.LoadInt32(&got) != 1 {
		t.Fatalf("handler calls = %d, want 1 (type-filtered)", got)
	}

	unsub()
	bus.Publish(context.Background(), core.NewLevelUp("amira", 3, 300))
	if atomic.LoadInt32(&got) != 1 {
		t.Fatal("handler called after unsubscribe")
	}
}

func TestEventBusAsyncDispatch(t *testing.T) {
	bus := NewEventBus(DispatchAsync)
	defer bus.Close()

	done := make(chan struct{})
	bus.Subscribe(core.EventBadgeUnlocked, func(_ context.Context, e core.Event) {
		close(done)
	})
	bus.Publish(context.Background(), core.NewBadgeUnlocked("amira", "first-steps", 10))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("async dispatch timed out")
	}
}
