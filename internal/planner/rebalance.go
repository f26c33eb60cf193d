package planner

import (
	"github.com/spec-kit/reclamos-service/internal/geo"
)

// rebalanceIterCap bounds the ticket-level pass. Each move strictly shrinks
// the heaviest group, so the cap is only a guard against pathological input.
const rebalanceIterCap = 1000

// Move scoring: compatibility with the destination dominates, exact zone
// presence and centrality break ties, and an empty destination is unblocked
// by any ticket.
const (
	scoreCompatible = 100
	scoreExactZone  = 20
	scoreEmptyDest  = 10
)

// RebalanceTickets moves single tickets from the heaviest to the lightest
// group until the loads differ by at most one. Candidates are scored by
// geographic affinity with the destination; when no compatibility-positive
// candidate exists the first ticket of the origin list moves, so the pass
// cannot deadlock. The result is a new Distribution; the input is not
// modified.
func RebalanceTickets(dist Distribution, snap *Snapshot, groups int) Distribution {
	groups = clampGroups(groups)

	out := make(Distribution, groups)
	for g := 0; g < groups; g++ {
		label := GroupLabels[g]
		out[label] = append([]string{}, dist[label]...)
	}

	for iter := 0; iter < rebalanceIterCap; iter++ {
		hi, lo := heaviestAndLightest(out, groups)
		if len(out[hi])-len(out[lo]) <= 1 {
			return out
		}
		idx := pickTicketToMove(out[hi], out[lo], snap)
		id := out[hi][idx]
		out[hi] = append(out[hi][:idx:idx], out[hi][idx+1:]...)
		out[lo] = append(out[lo], id)
	}
	return out
}

func heaviestAndLightest(dist Distribution, groups int) (hi, lo string) {
	hi, lo = GroupLabels[0], GroupLabels[0]
	for g := 1; g < groups; g++ {
		label := GroupLabels[g]
		if len(dist[label]) > len(dist[hi]) {
			hi = label
		}
		if len(dist[label]) < len(dist[lo]) {
			lo = label
		}
	}
	return hi, lo
}

// pickTicketToMove returns the index into origin of the best-scoring ticket.
// Ties keep the first-listed ticket, which also serves as the fallback when
// nothing scores.
func pickTicketToMove(origin, dest []string, snap *Snapshot) int {
	destZones := zonesOf(dest, snap)

	best, bestScore := 0, -1
	for i, id := range origin {
		ticket, ok := snap.TicketByID(id)
		if !ok {
			continue
		}
		zone, ok := geo.ZoneOf(ticket.Sector)
		if !ok {
			continue
		}

		score := 0
		if len(destZones) == 0 {
			score += scoreEmptyDest
		} else if geo.CompatibleWithAny(zone, destZones) {
			score += scoreCompatible
		}
		for _, d := range destZones {
			if d == zone {
				score += scoreExactZone
				break
			}
		}
		score += geo.CompatibilityDegree(zone)

		if score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

// zonesOf collects the distinct zones of the tickets in ids, in first-seen
// order.
func zonesOf(ids []string, snap *Snapshot) []geo.Zone {
	seen := map[geo.Zone]bool{}
	zones := []geo.Zone{}
	for _, id := range ids {
		ticket, ok := snap.TicketByID(id)
		if !ok {
			continue
		}
		if zone, ok := geo.ZoneOf(ticket.Sector); ok && !seen[zone] {
			seen[zone] = true
			zones = append(zones, zone)
		}
	}
	return zones
}
