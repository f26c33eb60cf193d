package planner

import (
	"reflect"
	"testing"
	"time"

	"github.com/spec-kit/reclamos-service/internal/domain"
	"github.com/spec-kit/reclamos-service/internal/geo"
)

var testBase = time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC)

// pendingTicket builds a pending ticket whose creation time decreases with
// seq, so fixtures listed first come first in snapshot order.
func pendingTicket(id string, sector int, ticketType string, seq int) domain.Ticket {
	return domain.Ticket{
		ID:             id,
		CustomerNumber: "C-" + id,
		Sector:         sector,
		Type:           ticketType,
		State:          domain.TicketStatePending,
		CreatedAt:      testBase.Add(-time.Duration(seq) * time.Minute),
	}
}

func TestDistributeByZoneTwoGroups(t *testing.T) {
	snap := NewSnapshot([]domain.Ticket{
		pendingTicket("T1", 1, domain.TicketTypeInstallation, 0),
		pendingTicket("T2", 2, domain.TicketTypeFaultRepair, 1),
		pendingTicket("T3", 9, domain.TicketTypeFaultRepair, 2),
	})

	dist := DistributeByZone(snap, 2)

	if !reflect.DeepEqual(dist["A"], []string{"T1", "T2"}) {
		t.Fatalf("group A: expected [T1 T2], got %v", dist["A"])
	}
	if !reflect.DeepEqual(dist["B"], []string{"T3"}) {
		t.Fatalf("group B: expected [T3], got %v", dist["B"])
	}
}

func TestDistributeByZoneRebalanceFourGroups(t *testing.T) {
	// Zone loads: Zona 1 = 6, Zona 3 = 2, Zona 5 = 1. The spread of 6 triggers
	// the zone-level rebalance, which hands Zona 3 to the empty group D and
	// then stops: no further move reduces the spread.
	tickets := []domain.Ticket{}
	seq := 0
	for i, sector := range []int{1, 2, 3, 4, 1, 2} {
		tickets = append(tickets, pendingTicket("Z1-"+string(rune('a'+i)), sector, domain.TicketTypeFaultRepair, seq))
		seq++
	}
	tickets = append(tickets, pendingTicket("Z3-a", 9, domain.TicketTypeFaultRepair, seq))
	tickets = append(tickets, pendingTicket("Z3-b", 10, domain.TicketTypeFaultRepair, seq+1))
	tickets = append(tickets, pendingTicket("Z5-a", 14, domain.TicketTypeFaultRepair, seq+2))
	snap := NewSnapshot(tickets)

	dist := DistributeByZone(snap, 4)

	if len(dist["A"]) != 6 {
		t.Fatalf("group A should keep all Zona 1 tickets, got %v", dist["A"])
	}
	if len(dist["B"]) != 0 {
		t.Fatalf("group B should end empty after donating Zona 3, got %v", dist["B"])
	}
	if !reflect.DeepEqual(dist["C"], []string{"Z5-a"}) {
		t.Fatalf("group C should hold the Zona 5 ticket, got %v", dist["C"])
	}
	if !reflect.DeepEqual(dist["D"], []string{"Z3-a", "Z3-b"}) {
		t.Fatalf("group D should receive Zona 3 intact, got %v", dist["D"])
	}
}

func TestDistributeByZoneNeverSplitsZones(t *testing.T) {
	tickets := []domain.Ticket{}
	for i := 0; i < 20; i++ {
		sector := (i % geo.SectorCount) + 1
		tickets = append(tickets, pendingTicket("T"+string(rune('A'+i)), sector, domain.TicketTypeInstallation, i))
	}
	snap := NewSnapshot(tickets)

	for groups := 1; groups <= 5; groups++ {
		dist := DistributeByZone(snap, groups)
		zoneGroup := map[geo.Zone]string{}
		for label, ids := range dist {
			for _, id := range ids {
				ticket, ok := snap.TicketByID(id)
				if !ok {
					t.Fatalf("groups=%d: %s not in snapshot", groups, id)
				}
				zone, _ := geo.ZoneOf(ticket.Sector)
				if prev, seen := zoneGroup[zone]; seen && prev != label {
					t.Fatalf("groups=%d: zone %s split between %s and %s", groups, zone, prev, label)
				}
				zoneGroup[zone] = label
			}
		}
	}
}

func TestDistributeByZoneDisjointAndComplete(t *testing.T) {
	tickets := []domain.Ticket{}
	for i := 0; i < 12; i++ {
		tickets = append(tickets, pendingTicket("T"+string(rune('a'+i)), (i%17)+1, domain.TicketTypeFaultRepair, i))
	}
	snap := NewSnapshot(tickets)

	dist := DistributeByZone(snap, 3)
	seen := map[string]bool{}
	for label, ids := range dist {
		for _, id := range ids {
			if seen[id] {
				t.Fatalf("ticket %s assigned twice (last in %s)", id, label)
			}
			seen[id] = true
		}
	}
	if len(seen) != snap.Len() {
		t.Fatalf("expected every pending ticket assigned, got %d of %d", len(seen), snap.Len())
	}
}

func TestDistributeDeterministic(t *testing.T) {
	tickets := []domain.Ticket{}
	for i := 0; i < 15; i++ {
		tickets = append(tickets, pendingTicket("T"+string(rune('a'+i)), (i*3%17)+1, domain.TicketTypeLowSignal, i))
	}
	snap := NewSnapshot(tickets)

	first := DistributeByZone(snap, 4)
	second := DistributeByZone(snap, 4)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("zone strategy not deterministic: %v vs %v", first, second)
	}

	firstRR := DistributeByType(snap, 3)
	secondRR := DistributeByType(snap, 3)
	if !reflect.DeepEqual(firstRR, secondRR) {
		t.Fatalf("type strategy not deterministic: %v vs %v", firstRR, secondRR)
	}
}

func TestDistributeSkipsNonPending(t *testing.T) {
	resolved := pendingTicket("TR", 1, domain.TicketTypeFaultRepair, 0)
	resolved.State = domain.TicketStateResolved
	snap := NewSnapshot([]domain.Ticket{
		resolved,
		pendingTicket("TP", 1, domain.TicketTypeFaultRepair, 1),
	})

	dist := DistributeByZone(snap, 2)
	for label, ids := range dist {
		for _, id := range ids {
			if id == "TR" {
				t.Fatalf("resolved ticket distributed into group %s", label)
			}
		}
	}
	if !reflect.DeepEqual(dist["A"], []string{"TP"}) {
		t.Fatalf("expected pending ticket in group A, got %v", dist["A"])
	}
}
