package sheets

import (
	"context"
	"fmt"

	"github.com/spec-kit/reclamos-service/internal/domain"
)

// Notification worksheet layout:
//
//	A id | B kind | C message | D audience | E related ticket | F created at
const notificationColumns = "A:F"

// NotificationSheet appends notifications to one worksheet. It implements
// planner.NotificationSink.
type NotificationSheet struct {
	client    *Client
	worksheet string
}

// NewNotificationSheet builds the sink for the named worksheet.
func NewNotificationSheet(client *Client, worksheet string) *NotificationSheet {
	if worksheet == "" {
		worksheet = "Notificaciones"
	}
	return &NotificationSheet{client: client, worksheet: worksheet}
}

// Publish appends one notification row.
func (s *NotificationSheet) Publish(ctx context.Context, n domain.Notification) error {
	row := []string{
		n.ID,
		string(n.Kind),
		n.Message,
		n.Audience,
		n.RelatedTicketID,
		n.CreatedAt.Format(createdAtLayout),
	}
	a1 := fmt.Sprintf("%s!%s", s.worksheet, notificationColumns)
	return s.client.AppendRow(ctx, a1, row)
}
