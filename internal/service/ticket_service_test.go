package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/reclamos-service/internal/domain"
)

type fakeIntake struct {
	created []domain.Ticket
	states  map[string]domain.TicketState
}

func newFakeIntake() *fakeIntake {
	return &fakeIntake{states: make(map[string]domain.TicketState)}
}

func (f *fakeIntake) ReadPendingTickets(_ context.Context) ([]domain.Ticket, error) {
	var pending []domain.Ticket
	for _, t := range f.created {
		if t.State == domain.TicketStatePending {
			pending = append(pending, t)
		}
	}
	return pending, nil
}

func (f *fakeIntake) Create(_ context.Context, t *domain.Ticket) error {
	f.created = append(f.created, *t)
	return nil
}

func (f *fakeIntake) SetState(_ context.Context, id string, state domain.TicketState) error {
	f.states[id] = state
	return nil
}

type fakeCustomers struct {
	known map[string]bool
}

func (f *fakeCustomers) GetByNumber(_ context.Context, number string) (*domain.Customer, error) {
	if !f.known[number] {
		return nil, nil
	}
	return &domain.Customer{Number: number, Name: "Cliente"}, nil
}

func TestOpenTicketHappyPath(t *testing.T) {
	intake := newFakeIntake()
	svc := NewTicketService(intake, &fakeCustomers{known: map[string]bool{"C-1": true}}, nil, zap.NewNop())

	ticket, err := svc.OpenTicket(context.Background(), "C-1", 5, domain.TicketTypeInstallation)
	if err != nil {
		t.Fatalf("OpenTicket: %v", err)
	}
	if ticket.State != domain.TicketStatePending {
		t.Fatalf("got state %q, want PENDING", ticket.State)
	}
	if ticket.ID == "" {
		t.Fatal("ticket id is empty")
	}
	if len(intake.created) != 1 {
		t.Fatalf("backend saw %d creates, want 1", len(intake.created))
	}
}

func TestOpenTicketValidation(t *testing.T) {
	svc := NewTicketService(newFakeIntake(), nil, nil, zap.NewNop())

	cases := []struct {
		name     string
		customer string
		sector   int
		typ      string
	}{
		{"sector too low", "C-1", 0, domain.TicketTypeFaultRepair},
		{"sector too high", "C-1", 18, domain.TicketTypeFaultRepair},
		{"empty type", "C-1", 3, ""},
		{"empty customer", "", 3, domain.TicketTypeFaultRepair},
	}
	for _, tc := range cases {
		if _, err := svc.OpenTicket(context.Background(), tc.customer, tc.sector, tc.typ); err == nil {
			t.Errorf("%s: OpenTicket accepted invalid input", tc.name)
		}
	}
}

func TestOpenTicketUnknownCustomer(t *testing.T) {
	svc := NewTicketService(newFakeIntake(), &fakeCustomers{}, nil, zap.NewNop())

	if _, err := svc.OpenTicket(context.Background(), "C-404", 3, domain.TicketTypeFaultRepair); err == nil {
		t.Fatal("unknown customer was accepted")
	}
}

func TestOpenTicketDisconnectRequestSkipsPlanner(t *testing.T) {
	intake := newFakeIntake()
	svc := NewTicketService(intake, nil, nil, zap.NewNop())

	ticket, err := svc.OpenTicket(context.Background(), "C-1", 9, domain.TicketTypeDisconnectReq)
	if err != nil {
		t.Fatalf("OpenTicket: %v", err)
	}
	if ticket.State != domain.TicketStateDisconnection {
		t.Fatalf("got state %q, want DISCONNECTION", ticket.State)
	}

	pending, err := svc.ListPending(context.Background())
	if err != nil {
		t.Fatalf("ListPending: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("disconnect request shows up as pending: %v", pending)
	}
}

func TestCloseTicket(t *testing.T) {
	intake := newFakeIntake()
	svc := NewTicketService(intake, nil, nil, zap.NewNop())

	if err := svc.CloseTicket(context.Background(), "T9"); err != nil {
		t.Fatalf("CloseTicket: %v", err)
	}
	if intake.states["T9"] != domain.TicketStateResolved {
		t.Fatalf("got state %q, want RESOLVED", intake.states["T9"])
	}
}
