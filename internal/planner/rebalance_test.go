package planner

import (
	"reflect"
	"testing"

	"github.com/spec-kit/reclamos-service/internal/domain"
)

func TestRebalanceTicketsBound(t *testing.T) {
	snap := NewSnapshot([]domain.Ticket{
		pendingTicket("T1", 1, domain.TicketTypeFaultRepair, 0),
		pendingTicket("T2", 1, domain.TicketTypeFaultRepair, 1),
		pendingTicket("T3", 2, domain.TicketTypeFaultRepair, 2),
		pendingTicket("T4", 9, domain.TicketTypeFaultRepair, 3),
		pendingTicket("T5", 14, domain.TicketTypeFaultRepair, 4),
		pendingTicket("T6", 5, domain.TicketTypeFaultRepair, 5),
	})
	dist := Distribution{
		"A": {"T1", "T2", "T3", "T4", "T5"},
		"B": {"T6"},
	}

	out := RebalanceTickets(dist, snap, 2)

	if len(out["A"])-len(out["B"]) > 1 || len(out["B"])-len(out["A"]) > 1 {
		t.Fatalf("expected loads within 1, got A=%v B=%v", out["A"], out["B"])
	}
	// T6 sits in Zona 2; Zona 3 is its only compatible neighbor among A's
	// zones, so the Zona 3 ticket T4 must be the first to move.
	if out["B"][1] != "T4" {
		t.Fatalf("expected T4 (Zona 3) moved first for compatibility, got %v", out["B"])
	}
}

func TestRebalanceTicketsDeterministic(t *testing.T) {
	tickets := []domain.Ticket{}
	for i := 0; i < 9; i++ {
		tickets = append(tickets, pendingTicket("T"+string(rune('a'+i)), (i*5%17)+1, domain.TicketTypeLowSignal, i))
	}
	snap := NewSnapshot(tickets)
	dist := Distribution{
		"A": {"Ta", "Tb", "Tc", "Td", "Te", "Tf", "Tg"},
		"B": {"Th"},
		"C": {"Ti"},
	}

	first := RebalanceTickets(dist, snap, 3)
	second := RebalanceTickets(dist, snap, 3)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("rebalance not deterministic: %v vs %v", first, second)
	}
}

func TestRebalanceTicketsFallbackMove(t *testing.T) {
	// Zona 4 is only compatible with Zona 2; the destination holds Zona 1
	// tickets, so no candidate scores a compatibility bonus and the pass
	// falls back to moving the first-listed ticket rather than deadlocking.
	snap := NewSnapshot([]domain.Ticket{
		pendingTicket("T1", 11, domain.TicketTypeFaultRepair, 0),
		pendingTicket("T2", 12, domain.TicketTypeFaultRepair, 1),
		pendingTicket("T3", 13, domain.TicketTypeFaultRepair, 2),
		pendingTicket("T4", 1, domain.TicketTypeFaultRepair, 3),
	})
	dist := Distribution{
		"A": {"T1", "T2", "T3"},
		"B": {"T4"},
	}

	out := RebalanceTickets(dist, snap, 2)

	if len(out["A"]) != 2 || len(out["B"]) != 2 {
		t.Fatalf("expected 2/2 split, got A=%v B=%v", out["A"], out["B"])
	}
	if out["B"][1] != "T1" {
		t.Fatalf("expected fallback to move first-listed T1, got %v", out["B"])
	}
}

func TestRebalanceTicketsDoesNotMutateInput(t *testing.T) {
	snap := NewSnapshot([]domain.Ticket{
		pendingTicket("T1", 1, domain.TicketTypeFaultRepair, 0),
		pendingTicket("T2", 2, domain.TicketTypeFaultRepair, 1),
		pendingTicket("T3", 3, domain.TicketTypeFaultRepair, 2),
	})
	dist := Distribution{"A": {"T1", "T2", "T3"}, "B": {}}

	RebalanceTickets(dist, snap, 2)

	if !reflect.DeepEqual(dist["A"], []string{"T1", "T2", "T3"}) || len(dist["B"]) != 0 {
		t.Fatalf("input distribution mutated: %v", dist)
	}
}
