package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/reclamos-service/internal/events"
	"github.com/spec-kit/reclamos-service/internal/observability"
	"github.com/spec-kit/reclamos-service/internal/planner"
	apperrors "github.com/spec-kit/reclamos-service/pkg/util"
)

// session holds one operator's in-progress plan together with the snapshot it
// was built against. Plans are memory-only; nothing touches the backend until
// Commit. Each session serializes its own operations through mu, so a long
// commit blocks concurrent edits of the same plan without stalling other
// sessions.
type session struct {
	mu       sync.Mutex
	plan     *planner.Plan
	snap     *planner.Snapshot
	lastUsed time.Time // guarded by PlannerService.mu
}

// PlannerService owns planning sessions and runs the assignment workflow
// against the ticket backend.
type PlannerService struct {
	store      planner.TicketStore
	committer  *planner.Committer
	dispatcher *events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger

	mu       sync.Mutex // guards the sessions map and lastUsed stamps
	sessions map[string]*session
}

func NewPlannerService(store planner.TicketStore, committer *planner.Committer, dispatcher *events.Dispatcher, metrics *observability.Metrics, logger *zap.Logger) *PlannerService {
	return &PlannerService{
		store:      store,
		committer:  committer,
		dispatcher: dispatcher,
		metrics:    metrics,
		logger:     logger,
		sessions:   make(map[string]*session),
	}
}

// SessionView is the read model returned after every mutating operation.
type SessionView struct {
	SessionID    string
	ActiveGroups int
	Pending      int
	Assignments  planner.Distribution
	Staged       planner.Distribution
	Technicians  map[string][]string
}

// OpenSession reads a fresh snapshot and starts an empty plan over it.
func (s *PlannerService) OpenSession(ctx context.Context, groups int) (*SessionView, error) {
	tickets, err := s.store.ReadPendingTickets(ctx)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	sess := &session{
		plan:     planner.NewPlan(groups),
		snap:     planner.NewSnapshot(tickets),
		lastUsed: time.Now(),
	}

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	s.logger.Info("planning session opened",
		zap.String("session", id),
		zap.Int("groups", sess.plan.ActiveGroupCount()),
		zap.Int("pending", sess.snap.Len()))

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return view(id, sess), nil
}

// Refresh re-reads the backend and drops assignments whose tickets are no
// longer pending.
func (s *PlannerService) Refresh(ctx context.Context, sessionID string) (*SessionView, []string, error) {
	tickets, err := s.store.ReadPendingTickets(ctx)
	if err != nil {
		return nil, nil, err
	}

	sess, err := s.get(sessionID)
	if err != nil {
		return nil, nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.snap = planner.NewSnapshot(tickets)
	dropped := sess.plan.PruneStale(sess.snap)
	if len(dropped) > 0 {
		s.logger.Info("stale assignments pruned on refresh",
			zap.String("session", sessionID),
			zap.Strings("tickets", dropped))
	}
	return view(sessionID, sess), dropped, nil
}

// CloseSession discards a session. Unknown ids are a no-op.
func (s *PlannerService) CloseSession(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
}

// PruneSessions drops sessions idle for longer than maxIdle and reports how
// many were removed.
func (s *PlannerService) PruneSessions(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, sess := range s.sessions {
		if sess.lastUsed.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// SetGroupCount changes the number of active work groups.
func (s *PlannerService) SetGroupCount(sessionID string, groups int) (*SessionView, error) {
	return s.mutate(sessionID, func(sess *session) error {
		sess.plan.SetActiveGroupCount(groups)
		return nil
	})
}

// DistributeByZone stages a zone-preserving distribution proposal.
func (s *PlannerService) DistributeByZone(sessionID string) (*SessionView, error) {
	return s.mutate(sessionID, func(sess *session) error {
		sess.plan.AutoDistributeByZone(sess.snap)
		return nil
	})
}

// DistributeByType stages a type round-robin distribution proposal.
func (s *PlannerService) DistributeByType(sessionID string) (*SessionView, error) {
	return s.mutate(sessionID, func(sess *session) error {
		sess.plan.AutoDistributeByType(sess.snap)
		return nil
	})
}

// Rebalance stages a ticket-level rebalance of the current assignments.
func (s *PlannerService) Rebalance(sessionID string) (*SessionView, error) {
	return s.mutate(sessionID, func(sess *session) error {
		sess.plan.StageRebalance(sess.snap)
		return nil
	})
}

// ConfirmStaged promotes the pending proposal into the working assignments.
func (s *PlannerService) ConfirmStaged(sessionID string) (*SessionView, error) {
	return s.mutate(sessionID, func(sess *session) error {
		if !sess.plan.ConfirmStaged() {
			return apperrors.NewConflict("no staged distribution to confirm", nil)
		}
		return nil
	})
}

// DiscardStaged drops the pending proposal.
func (s *PlannerService) DiscardStaged(sessionID string) (*SessionView, error) {
	return s.mutate(sessionID, func(sess *session) error {
		sess.plan.DiscardStaged()
		return nil
	})
}

// Assign puts one pending ticket into a group by hand.
func (s *PlannerService) Assign(sessionID, group, ticketID string) (*SessionView, error) {
	return s.mutate(sessionID, func(sess *session) error {
		if _, ok := sess.snap.TicketByID(ticketID); !ok {
			return apperrors.NewNotFound("ticket", map[string]any{"id": ticketID})
		}
		if !sess.plan.Assign(group, ticketID) {
			return apperrors.NewValidationError("unknown group", map[string]any{"group": group})
		}
		return nil
	})
}

// Unassign removes a ticket from a group.
func (s *PlannerService) Unassign(sessionID, group, ticketID string) (*SessionView, error) {
	return s.mutate(sessionID, func(sess *session) error {
		if !sess.plan.Unassign(group, ticketID) {
			return apperrors.NewNotFound("assignment", map[string]any{"group": group, "ticket": ticketID})
		}
		return nil
	})
}

// SetTechnicians replaces the crew roster of a group.
func (s *PlannerService) SetTechnicians(sessionID, group string, techs []string) (*SessionView, error) {
	return s.mutate(sessionID, func(sess *session) error {
		if !sess.plan.SetTechnicians(group, techs) {
			return apperrors.NewValidationError("unknown group", map[string]any{"group": group})
		}
		return nil
	})
}

// Materials aggregates the bill of materials per active group.
func (s *PlannerService) Materials(sessionID string) (map[string]map[string]int, error) {
	sess, err := s.get(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	totals, err := planner.AggregateMaterials(sess.plan.ActiveAssignments(), sess.snap)
	if err != nil {
		return nil, err
	}
	return totals, nil
}

// Commit writes the active assignments to the backend. The session lock is
// held across the whole commit, including the store round trips, so edits of
// the same session wait instead of racing the committer's reads of the plan.
// On success the session snapshot is rebuilt so a repeated commit is a no-op.
func (s *PlannerService) Commit(ctx context.Context, sessionID string, strict bool) (*planner.CommitResult, error) {
	sess, err := s.get(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	result, err := s.committer.Commit(ctx, sess.plan, planner.CommitOptions{Strict: strict})
	if s.metrics != nil {
		updated, stale := 0, 0
		if result != nil {
			updated, stale = result.Updated(), len(result.Stale)
		}
		s.metrics.RecordCommit(updated, stale, err != nil)
	}
	if err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		s.dispatcher.Publish(events.NewEvent(events.EventPlanCommitted, map[string]any{
			"session":       sessionID,
			"updated":       result.Updated(),
			"stale_dropped": len(result.Stale),
		}))
	}

	// Rebuild the snapshot so the session reflects the post-commit world.
	if tickets, readErr := s.store.ReadPendingTickets(ctx); readErr == nil {
		sess.snap = planner.NewSnapshot(tickets)
		sess.plan.PruneStale(sess.snap)
	} else {
		s.logger.Warn("post-commit snapshot refresh failed", zap.Error(readErr))
	}

	return result, nil
}

// View returns the current state of a session without mutating it.
func (s *PlannerService) View(sessionID string) (*SessionView, error) {
	sess, err := s.get(sessionID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return view(sessionID, sess), nil
}

func (s *PlannerService) get(sessionID string) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, apperrors.NewNotFound("session", map[string]any{"id": sessionID})
	}
	sess.lastUsed = time.Now()
	return sess, nil
}

func (s *PlannerService) mutate(sessionID string, fn func(*session) error) (*SessionView, error) {
	sess, err := s.get(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err := fn(sess); err != nil {
		return nil, err
	}
	return view(sessionID, sess), nil
}

// view assumes the caller holds sess.mu.
func view(id string, sess *session) *SessionView {
	techs := make(map[string][]string)
	for _, label := range sess.plan.ActiveLabels() {
		if roster := sess.plan.Technicians(label); len(roster) > 0 {
			techs[label] = roster
		}
	}
	return &SessionView{
		SessionID:    id,
		ActiveGroups: sess.plan.ActiveGroupCount(),
		Pending:      sess.snap.Len(),
		Assignments:  sess.plan.ActiveAssignments(),
		Staged:       sess.plan.Staged(),
		Technicians:  techs,
	}
}
