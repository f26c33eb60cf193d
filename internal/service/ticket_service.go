package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/reclamos-service/internal/domain"
	"github.com/spec-kit/reclamos-service/internal/events"
	"github.com/spec-kit/reclamos-service/internal/geo"
	"github.com/spec-kit/reclamos-service/internal/materials"
	apperrors "github.com/spec-kit/reclamos-service/pkg/util"
)

// TicketIntake is the write side of the ticket backend.
type TicketIntake interface {
	ReadPendingTickets(ctx context.Context) ([]domain.Ticket, error)
	Create(ctx context.Context, t *domain.Ticket) error
	SetState(ctx context.Context, id string, state domain.TicketState) error
}

// CustomerDirectory resolves customers by their account number. May be nil
// when the active backend has no customer registry.
type CustomerDirectory interface {
	GetByNumber(ctx context.Context, number string) (*domain.Customer, error)
}

// TicketService handles intake and lifecycle of reclamos outside planning.
type TicketService struct {
	tickets    TicketIntake
	customers  CustomerDirectory
	dispatcher *events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

func NewTicketService(tickets TicketIntake, customers CustomerDirectory, dispatcher *events.Dispatcher, logger *zap.Logger) *TicketService {
	return &TicketService{
		tickets:    tickets,
		customers:  customers,
		dispatcher: dispatcher,
		logger:     logger,
		now:        time.Now,
	}
}

// OpenTicket validates and registers a new reclamo. Disconnect requests enter
// directly in the DISCONNECTION state and never reach the planner.
func (s *TicketService) OpenTicket(ctx context.Context, customerNumber string, sector int, ticketType string) (*domain.Ticket, error) {
	if sector < 1 || sector > geo.SectorCount {
		return nil, apperrors.NewValidationError("sector out of range", map[string]any{"sector": sector})
	}
	if ticketType == "" {
		return nil, apperrors.NewValidationError("ticket type is required", nil)
	}
	if customerNumber == "" {
		return nil, apperrors.NewValidationError("customer number is required", nil)
	}
	if _, known := materials.MaterialsFor(ticketType); !known {
		s.logger.Warn("ticket type not in materials catalog", zap.String("type", ticketType))
	}

	if s.customers != nil {
		customer, err := s.customers.GetByNumber(ctx, customerNumber)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, apperrors.NewNotFound("customer", map[string]any{"number": customerNumber})
		}
	}

	state := domain.TicketStatePending
	if ticketType == domain.TicketTypeDisconnectReq {
		state = domain.TicketStateDisconnection
	}

	ticket := &domain.Ticket{
		ID:             uuid.NewString(),
		CustomerNumber: customerNumber,
		Sector:         sector,
		Type:           ticketType,
		State:          state,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	s.logger.Info("ticket opened",
		zap.String("id", ticket.ID),
		zap.Int("sector", ticket.Sector),
		zap.String("type", ticket.Type))
	if s.dispatcher != nil {
		s.dispatcher.Publish(events.NewEvent(events.EventTicketOpened, map[string]any{
			"ticket_id": ticket.ID,
			"sector":    ticket.Sector,
			"type":      ticket.Type,
		}))
	}
	return ticket, nil
}

// ListPending returns the pending tickets, newest first.
func (s *TicketService) ListPending(ctx context.Context) ([]domain.Ticket, error) {
	return s.tickets.ReadPendingTickets(ctx)
}

// CloseTicket resolves a ticket regardless of its assignment status.
func (s *TicketService) CloseTicket(ctx context.Context, id string) error {
	if err := s.tickets.SetState(ctx, id, domain.TicketStateResolved); err != nil {
		return err
	}
	s.logger.Info("ticket closed", zap.String("id", id))
	if s.dispatcher != nil {
		s.dispatcher.Publish(events.NewEvent(events.EventTicketClosed, map[string]any{
			"ticket_id": id,
		}))
	}
	return nil
}
