package dto

import (
	"time"

	"github.com/spec-kit/reclamos-service/internal/domain"
	"github.com/spec-kit/reclamos-service/internal/geo"
)

// OpenTicketRequest payload for registering a reclamo.
type OpenTicketRequest struct {
	CustomerNumber string `json:"customer_number"`
	Sector         int    `json:"sector"`
	Type           string `json:"type"`
}

// TicketView is the public shape of a ticket.
type TicketView struct {
	ID             string    `json:"id"`
	CustomerNumber string    `json:"customer_number"`
	Sector         int       `json:"sector"`
	Zone           string    `json:"zone"`
	Type           string    `json:"type"`
	State          string    `json:"state"`
	CreatedAt      time.Time `json:"created_at"`
	Technicians    []string  `json:"technicians,omitempty"`
}

// NewTicketView maps a domain ticket, resolving its zone.
func NewTicketView(t domain.Ticket) TicketView {
	zone, _ := geo.ZoneOf(t.Sector)
	return TicketView{
		ID:             t.ID,
		CustomerNumber: t.CustomerNumber,
		Sector:         t.Sector,
		Zone:           string(zone),
		Type:           t.Type,
		State:          string(t.State),
		CreatedAt:      t.CreatedAt,
		Technicians:    t.Technicians,
	}
}

// NewTicketViews maps a slice preserving order.
func NewTicketViews(tickets []domain.Ticket) []TicketView {
	out := make([]TicketView, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, NewTicketView(t))
	}
	return out
}
