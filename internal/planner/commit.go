package planner

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/reclamos-service/internal/domain"
	apperrors "github.com/spec-kit/reclamos-service/pkg/util"
)

// Committer flips the planned tickets to IN_PROGRESS and records their crew.
// It re-reads the store immediately before writing and drops ids that went
// stale in between; it does not retry, the store owns transport retries.
type Committer struct {
	store  TicketStore
	sink   NotificationSink
	logger *zap.Logger
	now    func() time.Time
}

// NewCommitter creates a committer.
func NewCommitter(store TicketStore, sink NotificationSink, logger *zap.Logger) *Committer {
	return &Committer{store: store, sink: sink, logger: logger, now: time.Now}
}

// CommitOptions tunes a commit.
type CommitOptions struct {
	// Strict aborts the whole commit when any planned ticket went stale
	// instead of dropping it.
	Strict bool
}

// RowFailure is one ticket the store could not update; the ticket stays
// Pending.
type RowFailure struct {
	TicketID string
	Reason   string
}

// CommitResult summarizes a commit for the operator.
type CommitResult struct {
	// UpdatedByGroup counts successfully flipped tickets per group.
	UpdatedByGroup map[string]int
	// Stale lists planned ids that were no longer pending at commit time.
	Stale []string
	// Failures lists per-row store rejections (partial commit).
	Failures []RowFailure
}

// Updated returns the total number of flipped tickets.
func (r *CommitResult) Updated() int {
	total := 0
	for _, n := range r.UpdatedByGroup {
		total += n
	}
	return total
}

// Partial reports whether the store rejected some rows.
func (r *CommitResult) Partial() bool {
	return len(r.Failures) > 0
}

// Commit validates the plan, issues one batch of row updates and emits one
// assignment notification per group that got at least one ticket through.
// Notifications are best effort; their failures are logged, never returned.
func (c *Committer) Commit(ctx context.Context, plan *Plan, opts CommitOptions) (*CommitResult, error) {
	assignments := plan.ActiveAssignments()

	missing := []string{}
	for _, label := range plan.ActiveLabels() {
		if len(assignments[label]) > 0 && len(plan.Technicians(label)) == 0 {
			missing = append(missing, label)
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.NewMissingTechnicians(missing)
	}

	rows, err := c.store.ReadPendingTickets(ctx)
	if err != nil {
		return nil, apperrors.NewCommitFailed(fmt.Errorf("read fresh snapshot: %w", err))
	}
	fresh := NewSnapshot(rows)

	result := &CommitResult{UpdatedByGroup: map[string]int{}}
	updates := []TicketUpdate{}
	groupOf := map[string]string{}
	for _, label := range plan.ActiveLabels() {
		techCSV := technicianCSV(plan.Technicians(label))
		for _, id := range assignments[label] {
			if _, ok := fresh.TicketByID(id); !ok {
				result.Stale = append(result.Stale, id)
				continue
			}
			updates = append(updates, TicketUpdate{
				ID:          id,
				State:       domain.TicketStateInProgress,
				Technicians: techCSV,
			})
			groupOf[id] = label
		}
	}
	sort.Strings(result.Stale)

	if opts.Strict && len(result.Stale) > 0 {
		return nil, apperrors.NewStaleTickets(result.Stale)
	}
	if len(updates) == 0 {
		return result, nil
	}

	outcomes, err := c.store.BatchUpdate(ctx, updates)
	if err != nil {
		return nil, apperrors.NewCommitFailed(err)
	}
	for _, outcome := range outcomes {
		label := groupOf[outcome.ID]
		if outcome.OK {
			result.UpdatedByGroup[label]++
			continue
		}
		result.Failures = append(result.Failures, RowFailure{
			TicketID: outcome.ID,
			Reason:   outcome.Error,
		})
	}

	c.notify(ctx, plan, result)
	return result, nil
}

func (c *Committer) notify(ctx context.Context, plan *Plan, result *CommitResult) {
	at := c.now()
	for _, label := range plan.ActiveLabels() {
		count := result.UpdatedByGroup[label]
		if count == 0 {
			continue
		}
		techCSV := technicianCSV(plan.Technicians(label))
		n := domain.Notification{
			ID:        uuid.NewString(),
			Kind:      domain.NotificationAssignment,
			Message:   fmt.Sprintf("group %s: %d tickets assigned to %s", label, count, techCSV),
			Audience:  domain.AudienceAll,
			CreatedAt: at,
		}
		if err := c.sink.Publish(ctx, n); err != nil {
			c.logger.Warn("notification failed",
				zap.String("group", label),
				zap.Error(err))
		}
	}
}

// technicianCSV renders a roster the way field worksheets print it.
func technicianCSV(techs []string) string {
	upper := make([]string, 0, len(techs))
	for _, t := range techs {
		t = strings.TrimSpace(t)
		if t != "" {
			upper = append(upper, strings.ToUpper(t))
		}
	}
	return strings.Join(upper, ", ")
}
