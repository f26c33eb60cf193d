package planner

import (
	"sort"

	"github.com/spec-kit/reclamos-service/internal/domain"
)

// Snapshot is a read-only projection of the ticket store taken when the
// planner screen opens. It is refreshed only on an explicit action; staleness
// between edits is reconciled at commit time by dropping stale ids.
type Snapshot struct {
	pending []domain.Ticket
	byID    map[string]*domain.Ticket
}

// NewSnapshot builds a snapshot from store rows. Only Pending tickets are
// retained, ordered by created-at descending (id ascending on ties) so that
// presentation and the dealing passes see a stable sequence.
func NewSnapshot(tickets []domain.Ticket) *Snapshot {
	pending := make([]domain.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if t.IsPending() {
			pending = append(pending, t)
		}
	}
	sort.SliceStable(pending, func(i, j int) bool {
		if !pending[i].CreatedAt.Equal(pending[j].CreatedAt) {
			return pending[i].CreatedAt.After(pending[j].CreatedAt)
		}
		return pending[i].ID < pending[j].ID
	})

	byID := make(map[string]*domain.Ticket, len(pending))
	for i := range pending {
		byID[pending[i].ID] = &pending[i]
	}
	return &Snapshot{pending: pending, byID: byID}
}

// PendingTickets returns the pending tickets in snapshot order.
func (s *Snapshot) PendingTickets() []domain.Ticket {
	out := make([]domain.Ticket, len(s.pending))
	copy(out, s.pending)
	return out
}

// TicketByID looks up a pending ticket.
func (s *Snapshot) TicketByID(id string) (*domain.Ticket, bool) {
	t, ok := s.byID[id]
	return t, ok
}

// Len returns the number of pending tickets.
func (s *Snapshot) Len() int {
	return len(s.pending)
}
