package dto

import (
	"github.com/spec-kit/reclamos-service/internal/planner"
	"github.com/spec-kit/reclamos-service/internal/service"
)

// OpenSessionRequest starts a planning session.
type OpenSessionRequest struct {
	Groups int `json:"groups"`
}

// GroupCountRequest changes the number of active groups.
type GroupCountRequest struct {
	Groups int `json:"groups"`
}

// AssignRequest moves a single ticket in or out of a group.
type AssignRequest struct {
	Group    string `json:"group"`
	TicketID string `json:"ticket_id"`
}

// TechniciansRequest replaces a group's crew roster.
type TechniciansRequest struct {
	Group       string   `json:"group"`
	Technicians []string `json:"technicians"`
}

// CommitRequest tunes the commit behavior.
type CommitRequest struct {
	Strict bool `json:"strict"`
}

// SessionResponse is the state of a planning session after an operation.
type SessionResponse struct {
	SessionID    string              `json:"session_id"`
	ActiveGroups int                 `json:"active_groups"`
	Pending      int                 `json:"pending"`
	Assignments  map[string][]string `json:"assignments"`
	Staged       map[string][]string `json:"staged,omitempty"`
	Technicians  map[string][]string `json:"technicians,omitempty"`
	Dropped      []string            `json:"dropped,omitempty"`
}

// NewSessionResponse maps a service view.
func NewSessionResponse(v *service.SessionView) SessionResponse {
	return SessionResponse{
		SessionID:    v.SessionID,
		ActiveGroups: v.ActiveGroups,
		Pending:      v.Pending,
		Assignments:  v.Assignments,
		Staged:       v.Staged,
		Technicians:  v.Technicians,
	}
}

// RowFailureView is one ticket the backend rejected during commit.
type RowFailureView struct {
	TicketID string `json:"ticket_id"`
	Reason   string `json:"reason"`
}

// CommitResponse summarizes a commit.
type CommitResponse struct {
	Updated        int              `json:"updated"`
	UpdatedByGroup map[string]int   `json:"updated_by_group"`
	Stale          []string         `json:"stale,omitempty"`
	Failures       []RowFailureView `json:"failures,omitempty"`
	Partial        bool             `json:"partial"`
}

// NewCommitResponse maps a planner commit result.
func NewCommitResponse(r *planner.CommitResult) CommitResponse {
	failures := make([]RowFailureView, 0, len(r.Failures))
	for _, f := range r.Failures {
		failures = append(failures, RowFailureView{TicketID: f.TicketID, Reason: f.Reason})
	}
	return CommitResponse{
		Updated:        r.Updated(),
		UpdatedByGroup: r.UpdatedByGroup,
		Stale:          r.Stale,
		Failures:       failures,
		Partial:        r.Partial(),
	}
}
