package geo

import (
	"fmt"
	"sort"
)

// Zone names a set of sectors treated as the atomic unit of crew assignment.
type Zone string

const (
	Zone1 Zone = "Zona 1"
	Zone2 Zone = "Zona 2"
	Zone3 Zone = "Zona 3"
	Zone4 Zone = "Zona 4"
	Zone5 Zone = "Zona 5"
)

// SectorCount is the size of the sector universe (sectors are 1..SectorCount).
const SectorCount = 17

// zoneSectors partitions the sector universe. Every sector belongs to exactly
// one zone; Validate enforces this at startup.
var zoneSectors = map[Zone][]int{
	Zone1: {1, 2, 3, 4},
	Zone2: {5, 6, 7, 8},
	Zone3: {9, 10},
	Zone4: {11, 12, 13},
	Zone5: {14, 15, 16, 17},
}

// zoneCompat is the adjacency proxy used by the rebalancers. The relation is
// evaluated symmetrically at lookup, so one-directional entries are enough.
var zoneCompat = map[Zone][]Zone{
	Zone1: {Zone3, Zone5},
	Zone2: {Zone4},
	Zone3: {Zone1, Zone2, Zone4, Zone5},
	Zone4: {Zone2},
	Zone5: {Zone1, Zone3},
}

// routerVendors maps sectors to the router brand stocked for them. Sectors not
// listed fall back to the default vendor.
var routerVendors = map[int]string{
	5: "huawei", 6: "huawei", 7: "huawei", 8: "huawei",
	14: "zte", 15: "zte", 16: "zte", 17: "zte",
}

const defaultRouterVendor = "tplink"

var sectorZone map[int]Zone

func init() {
	sectorZone = make(map[int]Zone, SectorCount)
	for zone, sectors := range zoneSectors {
		for _, s := range sectors {
			sectorZone[s] = zone
		}
	}
}

// Zones returns all zone names in a deterministic order.
func Zones() []Zone {
	zones := make([]Zone, 0, len(zoneSectors))
	for z := range zoneSectors {
		zones = append(zones, z)
	}
	sort.Slice(zones, func(i, j int) bool { return zones[i] < zones[j] })
	return zones
}

// ZoneOf returns the zone enclosing the sector.
func ZoneOf(sector int) (Zone, bool) {
	z, ok := sectorZone[sector]
	return z, ok
}

// SectorsIn returns the member sectors of a zone.
func SectorsIn(zone Zone) []int {
	sectors := zoneSectors[zone]
	out := make([]int, len(sectors))
	copy(out, sectors)
	return out
}

// Compatible reports whether two zones are acceptable neighbors. The relation
// is checked in both directions.
func Compatible(a, b Zone) bool {
	for _, z := range zoneCompat[a] {
		if z == b {
			return true
		}
	}
	for _, z := range zoneCompat[b] {
		if z == a {
			return true
		}
	}
	return false
}

// CompatibleWithAny reports whether zone is compatible with at least one
// member of the set. An empty set always qualifies.
func CompatibleWithAny(zone Zone, set []Zone) bool {
	if len(set) == 0 {
		return true
	}
	for _, other := range set {
		if Compatible(zone, other) {
			return true
		}
	}
	return false
}

// CompatibilityDegree counts zones compatible with the given zone. Used as a
// centrality bonus when scoring ticket moves.
func CompatibilityDegree(zone Zone) int {
	degree := 0
	for _, other := range Zones() {
		if other != zone && Compatible(zone, other) {
			degree++
		}
	}
	return degree
}

// RouterVendorFor returns the router brand stocked for the sector.
func RouterVendorFor(sector int) string {
	if vendor, ok := routerVendors[sector]; ok {
		return vendor
	}
	return defaultRouterVendor
}

// Validate checks the static tables: zones must partition the sector universe
// and the compatibility relation must only reference known zones. A failure
// here is a build mistake and should halt startup.
func Validate() error {
	seen := make(map[int]Zone, SectorCount)
	for zone, sectors := range zoneSectors {
		for _, s := range sectors {
			if s < 1 || s > SectorCount {
				return fmt.Errorf("geo: zone %q contains out-of-range sector %d", zone, s)
			}
			if prev, dup := seen[s]; dup {
				return fmt.Errorf("geo: sector %d belongs to both %q and %q", s, prev, zone)
			}
			seen[s] = zone
		}
	}
	for s := 1; s <= SectorCount; s++ {
		if _, ok := seen[s]; !ok {
			return fmt.Errorf("geo: sector %d has no enclosing zone", s)
		}
	}
	for zone, neighbors := range zoneCompat {
		if _, ok := zoneSectors[zone]; !ok {
			return fmt.Errorf("geo: compatibility entry for unknown zone %q", zone)
		}
		for _, n := range neighbors {
			if _, ok := zoneSectors[n]; !ok {
				return fmt.Errorf("geo: zone %q lists unknown neighbor %q", zone, n)
			}
		}
	}
	return nil
}
