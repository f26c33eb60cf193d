package domain

import "time"

// TicketState enumerates lifecycle states for reclamos.
type TicketState string

const (
	TicketStatePending       TicketState = "PENDING"
	TicketStateInProgress    TicketState = "IN_PROGRESS"
	TicketStateResolved      TicketState = "RESOLVED"
	TicketStateDisconnection TicketState = "DISCONNECTION"
)

// Well-known ticket types. The materials catalog keys off these; intake may
// record additional free-form types, which the planner passes through untouched.
const (
	TicketTypeInstallation  = "installation"
	TicketTypeFaultRepair   = "fault repair"
	TicketTypeLowSignal     = "low signal"
	TicketTypeRouterChange  = "router change"
	TicketTypeDisconnectReq = "disconnect on request"
)

// Ticket is a customer service request tied to a sector of the service area.
type Ticket struct {
	ID             string
	CustomerNumber string
	Sector         int
	Type           string
	State          TicketState
	CreatedAt      time.Time
	Technicians    []string
}

// IsPending reports whether the ticket is still a planning candidate.
func (t *Ticket) IsPending() bool {
	return t.State == TicketStatePending
}
