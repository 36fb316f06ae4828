package api

// eventWriter adapts a Broadcaster to the io.Writer internal/interp.Context
// expects for .echo output, matching the teacher's event_writer.go, which
// performed the same adaptation for VM stdout.
type eventWriter struct {
	broadcaster *Broadcaster
	sessionID   string
}

func newEventWriter(b *Broadcaster, sessionID string) *eventWriter {
	return &eventWriter{broadcaster: b, sessionID: sessionID}
}

func (w *eventWriter) Write(p []byte) (int, error) {
	if w.broadcaster != nil {
		w.broadcaster.BroadcastOutput(w.sessionID, string(p))
	}
	return len(p), nil
}
