package events

import "time"

type EventType string

const (
	EventPlanCommitted EventType = "plan.committed"
	EventTicketOpened  EventType = "ticket.opened"
	EventTicketClosed  EventType = "ticket.closed"
)

// Event is the envelope put on the dispatcher bus.
type Event struct {
	Type       EventType      `json:"type"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload"`
}

func NewEvent(t EventType, payload map[string]any) Event {
	return Event{Type: t, OccurredAt: time.Now().UTC(), Payload: payload}
}
