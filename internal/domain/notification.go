package domain

import "time"

// NotificationKind enumerates notification categories.
type NotificationKind string

const (
	NotificationAssignment   NotificationKind = "assignment"
	NotificationTicketOpened NotificationKind = "ticket_opened"
	NotificationTicketClosed NotificationKind = "ticket_closed"
)

// AudienceAll targets every logged-in user.
const AudienceAll = "all"

// Notification is one row of the notifications worksheet/table.
type Notification struct {
	ID              string
	Kind            NotificationKind
	Message         string
	Audience        string
	RelatedTicketID string
	CreatedAt       time.Time
}
