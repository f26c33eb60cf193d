package planner

// Plan is the mutable working state of one planning session: active
// assignments and technicians per group, plus a staged distribution proposed
// by an auto-distribute pass and not yet confirmed. A Plan lives in session
// memory only and is never persisted.
type Plan struct {
	activeGroups int
	assignments  map[string][]string
	technicians  map[string][]string
	staged       Distribution
}

// NewPlan creates an empty plan with the given number of active groups
// (clamped to 1..MaxGroups).
func NewPlan(activeGroups int) *Plan {
	return &Plan{
		activeGroups: clampGroups(activeGroups),
		assignments:  map[string][]string{},
		technicians:  map[string][]string{},
	}
}

// ActiveGroupCount returns the number of groups currently in play.
func (p *Plan) ActiveGroupCount() int {
	return p.activeGroups
}

// ActiveLabels returns the labels of the active groups, in order.
func (p *Plan) ActiveLabels() []string {
	return append([]string{}, GroupLabels[:p.activeGroups]...)
}

// SetActiveGroupCount changes the number of groups. Assignments of groups
// beyond the new count stay addressable for explicit cleanup but are excluded
// from commit.
func (p *Plan) SetActiveGroupCount(n int) {
	p.activeGroups = clampGroups(n)
}

// AutoDistributeByZone replaces the staged distribution with the output of the
// zone-preserving strategy.
func (p *Plan) AutoDistributeByZone(snap *Snapshot) Distribution {
	p.staged = DistributeByZone(snap, p.activeGroups)
	return p.stagedCopy()
}

// AutoDistributeByType replaces the staged distribution with the output of the
// type round-robin strategy.
func (p *Plan) AutoDistributeByType(snap *Snapshot) Distribution {
	p.staged = DistributeByType(snap, p.activeGroups)
	return p.stagedCopy()
}

// StageRebalance replaces the staged distribution with a ticket-level
// rebalance of the current active assignments.
func (p *Plan) StageRebalance(snap *Snapshot) Distribution {
	p.staged = RebalanceTickets(p.ActiveAssignments(), snap, p.activeGroups)
	return p.stagedCopy()
}

// Staged returns a copy of the staged distribution, or nil when none is
// pending.
func (p *Plan) Staged() Distribution {
	return p.stagedCopy()
}

// ConfirmStaged promotes the staged distribution: all active assignments are
// replaced by the proposal and the staging slot is cleared. A no-op when
// nothing is staged.
func (p *Plan) ConfirmStaged() bool {
	if p.staged == nil {
		return false
	}
	p.assignments = map[string][]string{}
	for label, ids := range p.staged {
		p.assignments[label] = append([]string{}, ids...)
	}
	p.staged = nil
	return true
}

// DiscardStaged drops the pending proposal without applying it.
func (p *Plan) DiscardStaged() {
	p.staged = nil
}

// Assign appends the ticket to the group unless it is already assigned to any
// group. Idempotent.
func (p *Plan) Assign(group, ticketID string) bool {
	if !validGroup(group) {
		return false
	}
	for _, ids := range p.assignments {
		for _, id := range ids {
			if id == ticketID {
				return false
			}
		}
	}
	p.assignments[group] = append(p.assignments[group], ticketID)
	return true
}

// Unassign removes the ticket from the group.
func (p *Plan) Unassign(group, ticketID string) bool {
	ids := p.assignments[group]
	for i, id := range ids {
		if id == ticketID {
			p.assignments[group] = append(ids[:i:i], ids[i+1:]...)
			return true
		}
	}
	return false
}

// SetTechnicians replaces the group's technician roster.
func (p *Plan) SetTechnicians(group string, techs []string) bool {
	if !validGroup(group) {
		return false
	}
	p.technicians[group] = append([]string{}, techs...)
	return true
}

// Technicians returns the roster of a group.
func (p *Plan) Technicians(group string) []string {
	return append([]string{}, p.technicians[group]...)
}

// Assignments returns a copy of every group's assignments, including
// deactivated groups.
func (p *Plan) Assignments() Distribution {
	out := make(Distribution, len(p.assignments))
	for label, ids := range p.assignments {
		out[label] = append([]string{}, ids...)
	}
	return out
}

// ActiveAssignments returns only the groups within the active prefix; this is
// the commit surface of the plan.
func (p *Plan) ActiveAssignments() Distribution {
	out := make(Distribution, p.activeGroups)
	for g := 0; g < p.activeGroups; g++ {
		label := GroupLabels[g]
		out[label] = append([]string{}, p.assignments[label]...)
	}
	return out
}

// PruneStale drops every assigned or staged ticket id that is no longer
// Pending in the snapshot. Called at the start of every external action that
// consumes the plan.
func (p *Plan) PruneStale(snap *Snapshot) []string {
	dropped := []string{}
	for label, ids := range p.assignments {
		kept := ids[:0]
		for _, id := range ids {
			if _, ok := snap.TicketByID(id); ok {
				kept = append(kept, id)
			} else {
				dropped = append(dropped, id)
			}
		}
		p.assignments[label] = kept
	}
	if p.staged != nil {
		for label, ids := range p.staged {
			kept := ids[:0]
			for _, id := range ids {
				if _, ok := snap.TicketByID(id); ok {
					kept = append(kept, id)
				}
			}
			p.staged[label] = kept
		}
	}
	return dropped
}

func (p *Plan) stagedCopy() Distribution {
	if p.staged == nil {
		return nil
	}
	out := make(Distribution, len(p.staged))
	for label, ids := range p.staged {
		out[label] = append([]string{}, ids...)
	}
	return out
}

func validGroup(label string) bool {
	for _, l := range GroupLabels {
		if l == label {
			return true
		}
	}
	return false
}
