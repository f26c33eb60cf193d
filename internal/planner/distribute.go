package planner

import (
	"sort"

	"github.com/spec-kit/reclamos-service/internal/geo"
)

// GroupLabels is the fixed sequence of crew labels; the active prefix is
// chosen per planning session (1..MaxGroups).
var GroupLabels = [MaxGroups]string{"A", "B", "C", "D", "E"}

// MaxGroups bounds the number of simultaneous crews.
const MaxGroups = 5

// Distribution maps a group label to its assigned ticket ids, in snapshot
// order within each group.
type Distribution map[string][]string

// rebalanceSpread is the carry spread above which the zone-level rebalance
// kicks in, and the small-zone load threshold for moves.
const (
	rebalanceSpread   = 2
	smallZoneLoad     = 2
	rebalanceMinGroup = 4
)

// zoneAssignment tracks which zones each active group owns during the greedy
// packing pass.
type zoneAssignment struct {
	zones [][]geo.Zone
	carry []int
}

// DistributeByZone partitions pending tickets among the first `groups` crews
// by assigning whole zones: zones are packed greedily onto the least-loaded
// group, optionally rebalanced at the zone level, then expanded to ticket ids.
// A zone is never split across groups.
func DistributeByZone(snap *Snapshot, groups int) Distribution {
	groups = clampGroups(groups)

	load := zoneLoads(snap)
	zones := geo.Zones()
	sort.SliceStable(zones, func(i, j int) bool {
		if load[zones[i]] != load[zones[j]] {
			return load[zones[i]] > load[zones[j]]
		}
		return zones[i] < zones[j]
	})

	asg := zoneAssignment{
		zones: make([][]geo.Zone, groups),
		carry: make([]int, groups),
	}
	for _, zone := range zones {
		target := 0
		for g := 1; g < groups; g++ {
			if asg.carry[g] < asg.carry[target] {
				target = g
			}
		}
		asg.zones[target] = append(asg.zones[target], zone)
		asg.carry[target] += load[zone]
	}

	if groups >= rebalanceMinGroup && spread(asg.carry) > rebalanceSpread {
		rebalanceZones(&asg, load)
	}

	return expandZones(snap, asg)
}

// rebalanceZones hands small zones intact to the lightest group while the
// carry spread exceeds the threshold. Donors are scanned heaviest first; the
// pass ends when no donor has a movable zone or a move fails to reduce the
// spread, so it never oscillates zones between near-equal groups.
func rebalanceZones(asg *zoneAssignment, load map[geo.Zone]int) {
	for iter := 0; iter < MaxGroups*len(load); iter++ {
		before := spread(asg.carry)
		if before <= rebalanceSpread {
			return
		}
		lo := 0
		for g := 1; g < len(asg.carry); g++ {
			if asg.carry[g] < asg.carry[lo] {
				lo = g
			}
		}

		if !moveSmallZone(asg, load, lo) {
			return
		}
		if spread(asg.carry) >= before {
			return
		}
	}
}

// moveSmallZone finds the first small zone on the heaviest eligible donor that
// is compatible with the recipient's zones and moves it whole.
func moveSmallZone(asg *zoneAssignment, load map[geo.Zone]int, lo int) bool {
	donors := make([]int, 0, len(asg.carry))
	for g := range asg.carry {
		if g != lo {
			donors = append(donors, g)
		}
	}
	sort.SliceStable(donors, func(i, j int) bool {
		return asg.carry[donors[i]] > asg.carry[donors[j]]
	})

	for _, hi := range donors {
		if asg.carry[hi] <= asg.carry[lo] {
			break
		}
		for i, zone := range asg.zones[hi] {
			if load[zone] > smallZoneLoad || load[zone] == 0 {
				continue
			}
			if !geo.CompatibleWithAny(zone, asg.zones[lo]) {
				continue
			}
			asg.zones[hi] = append(asg.zones[hi][:i:i], asg.zones[hi][i+1:]...)
			asg.zones[lo] = append(asg.zones[lo], zone)
			asg.carry[hi] -= load[zone]
			asg.carry[lo] += load[zone]
			return true
		}
	}
	return false
}

// expandZones lists every pending ticket of each group's zones, preserving
// snapshot order inside each group.
func expandZones(snap *Snapshot, asg zoneAssignment) Distribution {
	dist := make(Distribution, len(asg.zones))
	for g := range asg.zones {
		label := GroupLabels[g]
		owned := make(map[geo.Zone]bool, len(asg.zones[g]))
		for _, zone := range asg.zones[g] {
			owned[zone] = true
		}
		ids := []string{}
		for _, t := range snap.PendingTickets() {
			zone, ok := geo.ZoneOf(t.Sector)
			if ok && owned[zone] {
				ids = append(ids, t.ID)
			}
		}
		dist[label] = ids
	}
	return dist
}

// zoneLoads counts pending tickets per zone. Tickets in sectors with no
// enclosing zone are skipped; geo.Validate rules that out at startup.
func zoneLoads(snap *Snapshot) map[geo.Zone]int {
	load := make(map[geo.Zone]int)
	for _, zone := range geo.Zones() {
		load[zone] = 0
	}
	for _, t := range snap.PendingTickets() {
		if zone, ok := geo.ZoneOf(t.Sector); ok {
			load[zone]++
		}
	}
	return load
}

func spread(carry []int) int {
	if len(carry) == 0 {
		return 0
	}
	min, max := carry[0], carry[0]
	for _, c := range carry[1:] {
		if c < min {
			min = c
		}
		if c > max {
			max = c
		}
	}
	return max - min
}

func clampGroups(groups int) int {
	if groups < 1 {
		return 1
	}
	if groups > MaxGroups {
		return MaxGroups
	}
	return groups
}
