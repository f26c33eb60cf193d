package sheets

import (
	"testing"

	"github.com/spec-kit/reclamos-service/internal/domain"
)

func TestParseTicketRow(t *testing.T) {
	ticket, err := parseTicketRow([]string{
		"R-1042", "30117", "9", "fault repair", "PENDING", "14/05/2024 09:30", "ana, luis",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ticket.ID != "R-1042" || ticket.CustomerNumber != "30117" {
		t.Fatalf("unexpected identity fields: %+v", ticket)
	}
	if ticket.Sector != 9 {
		t.Fatalf("sector not parsed to int: %+v", ticket)
	}
	if ticket.State != domain.TicketStatePending {
		t.Fatalf("unexpected state: %s", ticket.State)
	}
	if ticket.CreatedAt.Day() != 14 || ticket.CreatedAt.Month() != 5 {
		t.Fatalf("created at parsed wrong: %v", ticket.CreatedAt)
	}
	if len(ticket.Technicians) != 2 || ticket.Technicians[0] != "ana" {
		t.Fatalf("technicians not split: %v", ticket.Technicians)
	}
}

func TestParseTicketRowWithoutTechnicians(t *testing.T) {
	ticket, err := parseTicketRow([]string{
		"R-1", "100", "3", "installation", "PENDING", "01/02/2024 10:00",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ticket.Technicians) != 0 {
		t.Fatalf("expected empty technician list, got %v", ticket.Technicians)
	}
}

func TestParseTicketRowRejectsBadCells(t *testing.T) {
	cases := [][]string{
		{"R-1", "100", "three", "installation", "PENDING", "01/02/2024 10:00"},
		{"R-1", "100", "3", "installation", "PENDING", "yesterday"},
		{"", "100", "3", "installation", "PENDING", "01/02/2024 10:00"},
		{"R-1", "100", "3"},
	}
	for i, row := range cases {
		if _, err := parseTicketRow(row); err == nil {
			t.Fatalf("case %d: expected parse error for %v", i, row)
		}
	}
}

func TestParseUserRow(t *testing.T) {
	user, err := parseUserRow([]string{"u1", "mreyes", "M. Reyes", "$2a$12$hash", "admin", "TRUE"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Role != domain.RoleAdmin || !user.Active {
		t.Fatalf("unexpected user: %+v", user)
	}

	if _, err := parseUserRow([]string{"u1", "mreyes", "M. Reyes", "hash", "janitor", "TRUE"}); err == nil {
		t.Fatalf("unknown role must be rejected")
	}
}
