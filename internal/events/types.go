package events

import (
	"time"

	"github.com/thenoetrevino/tablero/internal/types"
)

// ProtocolVersion is stamped on every message. Peers log a mismatch but
// keep talking.
const ProtocolVersion = 1

// EventType indicates what kind of change occurred
type EventType string

const (
	// EventProjectChanged tells boards showing the project to refetch it
	EventProjectChanged EventType = "project_changed"
	EventPing           EventType = "ping"
	EventPong           EventType = "pong"
)

// Wire message types
const (
	MsgEvent     = "event"
	MsgSubscribe = "subscribe"
	MsgPing      = "ping"
	MsgPong      = "pong"
)

// Event is a change notification relayed by the daemon
type Event struct {
	Type       EventType       `json:"type"`
	ProjectID  types.ProjectID `json:"projectId,omitempty"` // empty = every project
	Timestamp  time.Time       `json:"timestamp"`
	SequenceID int64           `json:"seq,omitempty"` // assigned by the daemon
}

// ForProject builds a project_changed event
func ForProject(id types.ProjectID) Event {
	return Event{Type: EventProjectChanged, ProjectID: id, Timestamp: time.Now()}
}

// SubscribeMessage selects which project's events a client receives
type SubscribeMessage struct {
	ProjectID types.ProjectID `json:"projectId,omitempty"` // empty = all projects
}

// Matches reports whether a subscriber should receive event
func (s SubscribeMessage) Matches(event Event) bool {
	return event.ProjectID.IsZero() || s.ProjectID.IsZero() || s.ProjectID == event.ProjectID
}

// Message is one newline-delimited JSON frame on the socket
type Message struct {
	Version   int               `json:"v"`
	Type      string            `json:"type"`
	Event     *Event            `json:"event,omitempty"`
	Subscribe *SubscribeMessage `json:"subscribe,omitempty"`
}
