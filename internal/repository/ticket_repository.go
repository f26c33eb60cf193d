package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/reclamos-service/internal/domain"
	"github.com/spec-kit/reclamos-service/internal/planner"
)

// TicketRepository is the Postgres ticket store used by self-hosted installs
// (STORE_BACKEND=postgres). It implements planner.TicketStore with a
// prior-state guard on every row, so a ticket grabbed by a concurrent session
// is reported as a per-row rejection instead of being overwritten.
type TicketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates the repository.
func NewTicketRepository(pool *pgxpool.Pool) *TicketRepository {
	return &TicketRepository{pool: pool}
}

// ReadPendingTickets lists pending tickets, newest first.
func (r *TicketRepository) ReadPendingTickets(ctx context.Context) ([]domain.Ticket, error) {
	const query = `
        SELECT id, customer_number, sector, type, state, created_at, technicians
        FROM tickets WHERE state=$1 ORDER BY created_at DESC, id ASC`
	rows, err := r.pool.Query(ctx, query, domain.TicketStatePending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

// BatchUpdate applies row updates guarded on the pending state. Rows that
// went stale since the fresh read come back as per-row rejections.
func (r *TicketRepository) BatchUpdate(ctx context.Context, updates []planner.TicketUpdate) ([]planner.UpdateResult, error) {
	const query = `
        UPDATE tickets SET state=$1, technicians=$2, updated_at=NOW()
        WHERE id=$3 AND state=$4`
	results := make([]planner.UpdateResult, 0, len(updates))
	for _, u := range updates {
		cmd, err := r.pool.Exec(ctx, query, u.State, u.Technicians, u.ID, domain.TicketStatePending)
		if err != nil {
			return nil, err
		}
		if cmd.RowsAffected() == 0 {
			results = append(results, planner.UpdateResult{ID: u.ID, OK: false, Error: "no longer pending"})
			continue
		}
		results = append(results, planner.UpdateResult{ID: u.ID, OK: true})
	}
	return results, nil
}

// Create inserts an intake ticket.
func (r *TicketRepository) Create(ctx context.Context, t *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (id, customer_number, sector, type, state, created_at, technicians)
        VALUES ($1,$2,$3,$4,$5,$6,$7)`
	_, err := r.pool.Exec(ctx, query,
		t.ID,
		t.CustomerNumber,
		t.Sector,
		t.Type,
		t.State,
		t.CreatedAt,
		strings.Join(t.Technicians, ", "),
	)
	return err
}

// SetState moves one ticket to a new state unconditionally (used by close).
func (r *TicketRepository) SetState(ctx context.Context, id string, state domain.TicketState) error {
	const query = `UPDATE tickets SET state=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, state, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var (
			ticket domain.Ticket
			techs  string
		)
		if err := rows.Scan(
			&ticket.ID,
			&ticket.CustomerNumber,
			&ticket.Sector,
			&ticket.Type,
			&ticket.State,
			&ticket.CreatedAt,
			&techs,
		); err != nil {
			return nil, err
		}
		for _, part := range strings.Split(techs, ",") {
			if name := strings.TrimSpace(part); name != "" {
				ticket.Technicians = append(ticket.Technicians, name)
			}
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
