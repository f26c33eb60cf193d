package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/reclamos-service/internal/domain"
)

// NotificationRepository persists notifications in Postgres. It implements
// planner.NotificationSink.
type NotificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository instantiates the repository.
func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

// Publish inserts one notification row.
func (r *NotificationRepository) Publish(ctx context.Context, n domain.Notification) error {
	const query = `
        INSERT INTO notifications (id, kind, message, audience, related_ticket_id, created_at)
        VALUES ($1,$2,$3,$4,NULLIF($5,''),$6)`
	_, err := r.pool.Exec(ctx, query, n.ID, n.Kind, n.Message, n.Audience, n.RelatedTicketID, n.CreatedAt)
	return err
}

// ListRecent returns the newest notifications for a given audience.
func (r *NotificationRepository) ListRecent(ctx context.Context, audience string, limit int) ([]domain.Notification, error) {
	if limit <= 0 {
		limit = 20
	}
	const query = `
        SELECT id, kind, message, audience, COALESCE(related_ticket_id, ''), created_at
        FROM notifications WHERE audience=$1 OR audience='all'
        ORDER BY created_at DESC LIMIT $2`
	rows, err := r.pool.Query(ctx, query, audience, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.Kind, &n.Message, &n.Audience, &n.RelatedTicketID, &n.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	return result, rows.Err()
}
