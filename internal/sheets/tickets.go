package sheets

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/reclamos-service/internal/domain"
	"github.com/spec-kit/reclamos-service/internal/planner"
)

// Ticket worksheet layout (one ticket per row, starting at row 2):
//
//	A id | B customer number | C sector | D type | E state | F created at | G technicians
const (
	ticketFirstRow   = 2
	ticketColumns    = "A:G"
	createdAtLayout  = "02/01/2006 15:04"
	techSeparator    = ","
	techJoinedOutput = ", "
)

// TicketSheet persists tickets on one worksheet. It implements the planner's
// TicketStore plus intake/resolve operations for the service layer.
type TicketSheet struct {
	client    *Client
	worksheet string
	logger    *zap.Logger
}

// NewTicketSheet builds the adapter for the named worksheet.
func NewTicketSheet(client *Client, worksheet string, logger *zap.Logger) *TicketSheet {
	if worksheet == "" {
		worksheet = "Reclamos"
	}
	return &TicketSheet{client: client, worksheet: worksheet, logger: logger}
}

// ReadPendingTickets reads the worksheet and returns the pending rows.
// Rows that fail to parse are dropped with a warning; the planner never sees
// half-typed records.
func (s *TicketSheet) ReadPendingTickets(ctx context.Context) ([]domain.Ticket, error) {
	tickets, _, err := s.readAll(ctx)
	if err != nil {
		return nil, err
	}
	pending := make([]domain.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if t.IsPending() {
			pending = append(pending, t)
		}
	}
	return pending, nil
}

// BatchUpdate writes the state and technician cells of every still-pending
// row in one API call. Rows no longer pending are reported per-row without
// failing the batch.
func (s *TicketSheet) BatchUpdate(ctx context.Context, updates []planner.TicketUpdate) ([]planner.UpdateResult, error) {
	tickets, rowOf, err := s.readAll(ctx)
	if err != nil {
		return nil, err
	}
	stateOf := make(map[string]domain.TicketState, len(tickets))
	for _, t := range tickets {
		stateOf[t.ID] = t.State
	}

	results := make([]planner.UpdateResult, 0, len(updates))
	cellWrites := []RowUpdate{}
	for _, u := range updates {
		row, found := rowOf[u.ID]
		if !found {
			results = append(results, planner.UpdateResult{ID: u.ID, OK: false, Error: "row not found"})
			continue
		}
		if stateOf[u.ID] != domain.TicketStatePending {
			results = append(results, planner.UpdateResult{ID: u.ID, OK: false, Error: "no longer pending"})
			continue
		}
		cellWrites = append(cellWrites,
			RowUpdate{Range: fmt.Sprintf("%s!E%d", s.worksheet, row), Values: []string{string(u.State)}},
			RowUpdate{Range: fmt.Sprintf("%s!G%d", s.worksheet, row), Values: []string{u.Technicians}},
		)
		results = append(results, planner.UpdateResult{ID: u.ID, OK: true})
	}

	if len(cellWrites) > 0 {
		if err := s.client.BatchUpdate(ctx, cellWrites); err != nil {
			// Whole write failed; nothing was applied.
			return nil, err
		}
	}
	return results, nil
}

// Create adds a new ticket row at the bottom of the worksheet.
func (s *TicketSheet) Create(ctx context.Context, t *domain.Ticket) error {
	row := []string{
		t.ID,
		t.CustomerNumber,
		strconv.Itoa(t.Sector),
		t.Type,
		string(t.State),
		t.CreatedAt.Format(createdAtLayout),
		strings.Join(t.Technicians, techJoinedOutput),
	}
	return s.client.AppendRow(ctx, s.rangeAll(), row)
}

// SetState rewrites the state cell of one ticket.
func (s *TicketSheet) SetState(ctx context.Context, ticketID string, state domain.TicketState) error {
	_, rowOf, err := s.readAll(ctx)
	if err != nil {
		return err
	}
	row, found := rowOf[ticketID]
	if !found {
		return fmt.Errorf("ticket %s: row not found", ticketID)
	}
	return s.client.BatchUpdate(ctx, []RowUpdate{
		{Range: fmt.Sprintf("%s!E%d", s.worksheet, row), Values: []string{string(state)}},
	})
}

func (s *TicketSheet) rangeAll() string {
	return fmt.Sprintf("%s!%s", s.worksheet, ticketColumns)
}

func (s *TicketSheet) readAll(ctx context.Context) ([]domain.Ticket, map[string]int, error) {
	rows, err := s.client.ReadRange(ctx, s.rangeAll())
	if err != nil {
		return nil, nil, err
	}
	tickets := []domain.Ticket{}
	rowOf := map[string]int{}
	for i, row := range rows {
		rowNum := i + 1
		if rowNum < ticketFirstRow {
			continue // header
		}
		ticket, err := parseTicketRow(row)
		if err != nil {
			s.logger.Warn("dropping unparseable ticket row",
				zap.Int("row", rowNum),
				zap.Error(err))
			continue
		}
		tickets = append(tickets, ticket)
		rowOf[ticket.ID] = rowNum
	}
	return tickets, rowOf, nil
}

// parseTicketRow types one spreadsheet row. Spreadsheet rows are untyped
// string lists; this is the only place they get parsed.
func parseTicketRow(row []string) (domain.Ticket, error) {
	if len(row) < 6 {
		return domain.Ticket{}, fmt.Errorf("expected at least 6 cells, got %d", len(row))
	}
	id := strings.TrimSpace(row[0])
	if id == "" {
		return domain.Ticket{}, fmt.Errorf("empty ticket id")
	}
	sector, err := strconv.Atoi(strings.TrimSpace(row[2]))
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("sector %q: %w", row[2], err)
	}
	createdAt, err := time.Parse(createdAtLayout, strings.TrimSpace(row[5]))
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("created at %q: %w", row[5], err)
	}

	technicians := []string{}
	if len(row) >= 7 {
		for _, part := range strings.Split(row[6], techSeparator) {
			if name := strings.TrimSpace(part); name != "" {
				technicians = append(technicians, name)
			}
		}
	}

	return domain.Ticket{
		ID:             id,
		CustomerNumber: strings.TrimSpace(row[1]),
		Sector:         sector,
		Type:           strings.TrimSpace(row[3]),
		State:          domain.TicketState(strings.TrimSpace(row[4])),
		CreatedAt:      createdAt,
		Technicians:    technicians,
	}, nil
}
