package api

import "sync"

// EventType classifies a BroadcastEvent, matching the teacher's
// broadcaster.go taxonomy narrowed to what this interpreter can emit:
// there is no VM "state machine" here, only echo output and step/run
// outcomes.
type EventType string

const (
	EventOutput EventType = "output"
	EventState  EventType = "state"
)

// BroadcastEvent is one message fanned out to subscribed WebSocket
// clients.
type BroadcastEvent struct {
	Type      EventType              `json:"type"`
	SessionID string                 `json:"sessionId"`
	Data      map[string]interface{} `json:"data"`
}

// subscription is one client's registration with the broadcaster,
// filtered to a single session ID the way the teacher's Subscription
// filters by SessionID and EventTypes.
type subscription struct {
	sessionID string
	channel   chan BroadcastEvent
}

// Broadcaster fans BroadcastEvents out to subscribed clients over
// buffered channels, the same register/unregister/broadcast goroutine
// loop as the teacher's api/broadcaster.go.
type Broadcaster struct {
	mu            sync.RWMutex
	subscriptions map[*subscription]bool
	broadcast     chan BroadcastEvent
	register      chan *subscription
	unregister    chan *subscription
	done          chan struct{}
}

// NewBroadcaster starts a broadcaster's event loop and returns it.
func NewBroadcaster() *Broadcaster {
	b := &Broadcaster{
		subscriptions: make(map[*subscription]bool),
		broadcast:     make(chan BroadcastEvent, 256),
		register:      make(chan *subscription),
		unregister:    make(chan *subscription),
		done:          make(chan struct{}),
	}
	go b.run()
	return b
}

func (b *Broadcaster) run() {
	for {
		select {
		case sub := <-b.register:
			b.mu.Lock()
			b.subscriptions[sub] = true
			b.mu.Unlock()

		case sub := <-b.unregister:
			b.mu.Lock()
			if b.subscriptions[sub] {
				delete(b.subscriptions, sub)
				close(sub.channel)
			}
			b.mu.Unlock()

		case ev := <-b.broadcast:
			b.mu.RLock()
			for sub := range b.subscriptions {
				if sub.sessionID != "" && sub.sessionID != ev.SessionID {
					continue
				}
				select {
				case sub.channel <- ev:
				default:
					// slow client, drop rather than block the broadcaster
				}
			}
			b.mu.RUnlock()

		case <-b.done:
			b.mu.Lock()
			for sub := range b.subscriptions {
				close(sub.channel)
			}
			b.subscriptions = make(map[*subscription]bool)
			b.mu.Unlock()
			return
		}
	}
}

// BroadcastOutput emits an echo-output event for sessionID.
func (b *Broadcaster) BroadcastOutput(sessionID, text string) {
	b.broadcast <- BroadcastEvent{
		Type:      EventOutput,
		SessionID: sessionID,
		Data:      map[string]interface{}{"text": text},
	}
}

// BroadcastState emits a step/run outcome event for sessionID.
func (b *Broadcaster) BroadcastState(sessionID string, halted bool, line int) {
	b.broadcast <- BroadcastEvent{
		Type:      EventState,
		SessionID: sessionID,
		Data:      map[string]interface{}{"halted": halted, "line": line},
	}
}

// Subscribe registers a new client channel for sessionID ("" for all
// sessions) and returns it along with an unsubscribe function.
func (b *Broadcaster) Subscribe(sessionID string) (<-chan BroadcastEvent, func()) {
	sub := &subscription{sessionID: sessionID, channel: make(chan BroadcastEvent, 256)}
	b.register <- sub
	return sub.channel, func() { b.unregister <- sub }
}

// Close shuts down the broadcaster's event loop and disconnects every
// subscriber.
func (b *Broadcaster) Close() {
	close(b.done)
}
