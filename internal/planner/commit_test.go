package planner

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/reclamos-service/internal/domain"
	apperrors "github.com/spec-kit/reclamos-service/pkg/util"
)

type fakeStore struct {
	pending    []domain.Ticket
	batches    [][]TicketUpdate
	batchErr   error
	rejectRows map[string]string
}

func (f *fakeStore) ReadPendingTickets(ctx context.Context) ([]domain.Ticket, error) {
	return f.pending, nil
}

func (f *fakeStore) BatchUpdate(ctx context.Context, updates []TicketUpdate) ([]UpdateResult, error) {
	if f.batchErr != nil {
		return nil, f.batchErr
	}
	f.batches = append(f.batches, updates)
	results := make([]UpdateResult, 0, len(updates))
	remaining := []domain.Ticket{}
	for _, t := range f.pending {
		updated := false
		for _, u := range updates {
			if u.ID != t.ID {
				continue
			}
			if reason, bad := f.rejectRows[u.ID]; bad {
				results = append(results, UpdateResult{ID: u.ID, OK: false, Error: reason})
			} else {
				results = append(results, UpdateResult{ID: u.ID, OK: true})
				updated = true
			}
		}
		if !updated {
			remaining = append(remaining, t)
		}
	}
	f.pending = remaining
	return results, nil
}

type fakeSink struct {
	published []domain.Notification
	err       error
}

func (f *fakeSink) Publish(ctx context.Context, n domain.Notification) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, n)
	return nil
}

func TestCommitRejectsMissingTechnicians(t *testing.T) {
	store := &fakeStore{pending: []domain.Ticket{
		pendingTicket("T1", 1, domain.TicketTypeInstallation, 0),
		pendingTicket("T2", 9, domain.TicketTypeInstallation, 1),
	}}
	sink := &fakeSink{}
	plan := NewPlan(2)
	plan.Assign("A", "T1")
	plan.Assign("B", "T2")
	plan.SetTechnicians("A", []string{"Ana"})

	_, err := NewCommitter(store, sink, zap.NewNop()).Commit(context.Background(), plan, CommitOptions{})

	domainErr := apperrors.ToDomainError(err)
	if domainErr == nil || domainErr.Code != "MISSING_TECHNICIANS" {
		t.Fatalf("expected MISSING_TECHNICIANS, got %v", err)
	}
	if len(store.batches) != 0 {
		t.Fatalf("no store write may happen before validation passes")
	}
}

func TestCommitDropsStaleAndNotifiesPerGroup(t *testing.T) {
	// T9 was pending when the plan was formed but resolved externally before
	// commit; it must be reported stale and excluded from the batch.
	store := &fakeStore{pending: []domain.Ticket{
		pendingTicket("T1", 1, domain.TicketTypeInstallation, 0),
		pendingTicket("T2", 9, domain.TicketTypeFaultRepair, 1),
	}}
	sink := &fakeSink{}
	plan := NewPlan(2)
	plan.Assign("A", "T1")
	plan.Assign("A", "T9")
	plan.Assign("B", "T2")
	plan.SetTechnicians("A", []string{"ana", "luis"})
	plan.SetTechnicians("B", []string{"marta"})

	result, err := NewCommitter(store, sink, zap.NewNop()).Commit(context.Background(), plan, CommitOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Stale) != 1 || result.Stale[0] != "T9" {
		t.Fatalf("expected stale [T9], got %v", result.Stale)
	}
	if result.Updated() != 2 {
		t.Fatalf("expected 2 updates, got %d", result.Updated())
	}
	if len(store.batches) != 1 || len(store.batches[0]) != 2 {
		t.Fatalf("expected one batch of two rows, got %v", store.batches)
	}
	for _, update := range store.batches[0] {
		if update.State != domain.TicketStateInProgress {
			t.Fatalf("update must flip to IN_PROGRESS, got %s", update.State)
		}
		if update.ID == "T1" && update.Technicians != "ANA, LUIS" {
			t.Fatalf("technicians must be upper-cased CSV, got %q", update.Technicians)
		}
	}
	if len(sink.published) != 2 {
		t.Fatalf("expected one notification per non-empty group, got %d", len(sink.published))
	}
	for _, n := range sink.published {
		if n.Kind != domain.NotificationAssignment || n.Audience != domain.AudienceAll {
			t.Fatalf("unexpected notification: %+v", n)
		}
	}
}

func TestCommitStrictModeAbortsOnStale(t *testing.T) {
	store := &fakeStore{pending: []domain.Ticket{
		pendingTicket("T1", 1, domain.TicketTypeInstallation, 0),
	}}
	plan := NewPlan(1)
	plan.Assign("A", "T1")
	plan.Assign("A", "T9")
	plan.SetTechnicians("A", []string{"Ana"})

	_, err := NewCommitter(store, &fakeSink{}, zap.NewNop()).Commit(context.Background(), plan, CommitOptions{Strict: true})

	domainErr := apperrors.ToDomainError(err)
	if domainErr == nil || domainErr.Code != "STALE_TICKETS" {
		t.Fatalf("expected STALE_TICKETS, got %v", err)
	}
	if len(store.batches) != 0 {
		t.Fatalf("strict commit must not write when tickets are stale")
	}
}

func TestCommitIdempotent(t *testing.T) {
	store := &fakeStore{pending: []domain.Ticket{
		pendingTicket("T1", 1, domain.TicketTypeInstallation, 0),
		pendingTicket("T2", 2, domain.TicketTypeInstallation, 1),
	}}
	sink := &fakeSink{}
	plan := NewPlan(1)
	plan.Assign("A", "T1")
	plan.Assign("A", "T2")
	plan.SetTechnicians("A", []string{"Ana"})
	committer := NewCommitter(store, sink, zap.NewNop())

	first, err := committer.Commit(context.Background(), plan, CommitOptions{})
	if err != nil || first.Updated() != 2 {
		t.Fatalf("first commit failed: %v %v", first, err)
	}

	// The store now shows both tickets IN_PROGRESS; a second commit sees them
	// all stale and must not write again.
	second, err := committer.Commit(context.Background(), plan, CommitOptions{})
	if err != nil {
		t.Fatalf("second commit errored: %v", err)
	}
	if len(second.Stale) != 2 || second.Updated() != 0 {
		t.Fatalf("expected all rows stale on recommit, got %+v", second)
	}
	if len(store.batches) != 1 {
		t.Fatalf("recommit must not issue a second batch, got %d", len(store.batches))
	}
	if len(sink.published) != 1 {
		t.Fatalf("recommit must not notify again, got %d", len(sink.published))
	}
}

func TestCommitWholeBatchFailure(t *testing.T) {
	store := &fakeStore{
		pending:  []domain.Ticket{pendingTicket("T1", 1, domain.TicketTypeInstallation, 0)},
		batchErr: errors.New("quota exceeded"),
	}
	sink := &fakeSink{}
	plan := NewPlan(1)
	plan.Assign("A", "T1")
	plan.SetTechnicians("A", []string{"Ana"})

	_, err := NewCommitter(store, sink, zap.NewNop()).Commit(context.Background(), plan, CommitOptions{})

	domainErr := apperrors.ToDomainError(err)
	if domainErr == nil || domainErr.Code != "COMMIT_FAILED" {
		t.Fatalf("expected COMMIT_FAILED, got %v", err)
	}
	if len(sink.published) != 0 {
		t.Fatalf("failed commit must not notify")
	}
}

func TestCommitPartialRowFailure(t *testing.T) {
	store := &fakeStore{
		pending: []domain.Ticket{
			pendingTicket("T1", 1, domain.TicketTypeInstallation, 0),
			pendingTicket("T2", 2, domain.TicketTypeInstallation, 1),
		},
		rejectRows: map[string]string{"T2": "row locked"},
	}
	sink := &fakeSink{}
	plan := NewPlan(1)
	plan.Assign("A", "T1")
	plan.Assign("A", "T2")
	plan.SetTechnicians("A", []string{"Ana"})

	result, err := NewCommitter(store, sink, zap.NewNop()).Commit(context.Background(), plan, CommitOptions{})
	if err != nil {
		t.Fatalf("partial failure is reported in the result, not as an error: %v", err)
	}

	if !result.Partial() || len(result.Failures) != 1 || result.Failures[0].TicketID != "T2" {
		t.Fatalf("expected T2 row failure, got %+v", result)
	}
	if result.UpdatedByGroup["A"] != 1 {
		t.Fatalf("expected one successful row, got %+v", result.UpdatedByGroup)
	}
	if len(sink.published) != 1 {
		t.Fatalf("the group still gets one notification with the successful count")
	}
}

func TestCommitNotificationFailureIsBestEffort(t *testing.T) {
	store := &fakeStore{pending: []domain.Ticket{
		pendingTicket("T1", 1, domain.TicketTypeInstallation, 0),
	}}
	sink := &fakeSink{err: errors.New("notifications worksheet unreachable")}
	plan := NewPlan(1)
	plan.Assign("A", "T1")
	plan.SetTechnicians("A", []string{"Ana"})

	result, err := NewCommitter(store, sink, zap.NewNop()).Commit(context.Background(), plan, CommitOptions{})
	if err != nil {
		t.Fatalf("notification failure must not fail the commit: %v", err)
	}
	if result.Updated() != 1 {
		t.Fatalf("expected the ticket flipped despite sink failure, got %+v", result)
	}
}

func TestCommitExcludesDeactivatedGroups(t *testing.T) {
	store := &fakeStore{pending: []domain.Ticket{
		pendingTicket("T1", 1, domain.TicketTypeInstallation, 0),
		pendingTicket("T2", 9, domain.TicketTypeInstallation, 1),
	}}
	sink := &fakeSink{}
	plan := NewPlan(2)
	plan.Assign("A", "T1")
	plan.Assign("B", "T2")
	plan.SetTechnicians("A", []string{"Ana"})
	plan.SetTechnicians("B", []string{"Luis"})
	plan.SetActiveGroupCount(1)

	result, err := NewCommitter(store, sink, zap.NewNop()).Commit(context.Background(), plan, CommitOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Updated() != 1 || result.UpdatedByGroup["A"] != 1 {
		t.Fatalf("only the active group may commit, got %+v", result)
	}
	if len(store.batches) != 1 || store.batches[0][0].ID != "T1" {
		t.Fatalf("unexpected batch: %v", store.batches)
	}
}
