package planner

import (
	"context"

	"github.com/spec-kit/reclamos-service/internal/domain"
)

// TicketUpdate is one logical row update issued at commit time.
type TicketUpdate struct {
	ID          string
	State       domain.TicketState
	Technicians string
}

// UpdateResult is the per-row outcome of a batch update. Whole-batch atomicity
// is not required of stores; per-row atomicity is.
type UpdateResult struct {
	ID    string
	OK    bool
	Error string
}

// TicketStore is the persistence contract the planner consumes. Transport
// concerns (rate limiting, retries, auth) belong to implementations.
type TicketStore interface {
	ReadPendingTickets(ctx context.Context) ([]domain.Ticket, error)
	BatchUpdate(ctx context.Context, updates []TicketUpdate) ([]UpdateResult, error)
}

// NotificationSink receives best-effort notifications emitted on commit.
type NotificationSink interface {
	Publish(ctx context.Context, n domain.Notification) error
}
