package api

import (
	"testing"
	"time"
)

func TestEventWriter_WritePublishesOutputEvent(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	events, unsubscribe := b.Subscribe("sess-1")
	defer unsubscribe()

	w := newEventWriter(b, "sess-1")
	n, err := w.Write([]byte("r1=5\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != len("r1=5\n") {
		t.Errorf("expected n=%d, got %d", len("r1=5\n"), n)
	}

	select {
	case ev := <-events:
		if ev.Data["text"] != "r1=5\n" {
			t.Errorf("unexpected event data: %+v", ev.Data)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for broadcast event")
	}
}
