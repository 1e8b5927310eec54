package realtime

import (
	"encoding/json"

	"github.com/google/uuid"
)

// EventKind names a routed event class. Lifecycle kinds are emitted by the
// supervisor itself; domain kinds arrive from the server.
type EventKind string

const (
	// EventConnected fires after the channel is established, including after
	// a successful reconnect.
	EventConnected EventKind = "connect"
	// EventDisconnected fires when an established channel is lost or torn
	// down.
	EventDisconnected EventKind = "disconnect"
	// EventError fires on transport errors, including failed reconnect
	// attempts. Informational: recovery belongs to the supervisor.
	EventError EventKind = "connect_error"

	// EventNotification is a generic user notification.
	EventNotification EventKind = "notification"
	// EventPaymentUpdate signals a change to a payment the user participates in.
	EventPaymentUpdate EventKind = "payment_update"
	// EventExpenseUpdate signals a change to an expense the user participates in.
	EventExpenseUpdate EventKind = "expense_update"
)

// Event is one routed occurrence. Data is the server payload, passed through
// unmodified; for lifecycle events it may be empty or carry an error message.
type Event struct {
	Kind EventKind       `json:"event"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Handler consumes events of a subscribed kind. Handlers run on the
// supervisor's dispatch goroutine and should return quickly.
type Handler func(Event)

// Subscription identifies one registration. It is the only way to remove a
// handler.
type Subscription struct {
	id   uuid.UUID
	kind EventKind
}

// Kind returns the event kind this subscription is registered for.
func (s Subscription) Kind() EventKind {
	return s.kind
}
