package planner

import (
	"fmt"

	"github.com/spec-kit/reclamos-service/internal/geo"
	"github.com/spec-kit/reclamos-service/internal/materials"
	apperrors "github.com/spec-kit/reclamos-service/pkg/util"
)

// MaterialsForGroup sums the bill of materials over the group's tickets. The
// generic "router" key is rewritten per ticket to "router_<vendor>" since the
// stocked brand depends on the sector. A ticket type missing from the catalog
// is a configuration error, not a guess.
func MaterialsForGroup(ids []string, snap *Snapshot) (map[string]int, error) {
	lines := map[string]int{}
	for _, id := range ids {
		ticket, ok := snap.TicketByID(id)
		if !ok {
			continue
		}
		bill, ok := materials.MaterialsFor(ticket.Type)
		if !ok {
			return nil, apperrors.NewConfigInvalid(
				fmt.Errorf("no materials entry for ticket type %q", ticket.Type))
		}
		for key, count := range bill {
			if key == materials.KeyRouter {
				key = materials.KeyRouter + "_" + geo.RouterVendorFor(ticket.Sector)
			}
			lines[key] += count
		}
	}
	return lines, nil
}

// AggregateMaterials computes material lines for every group of a
// distribution.
func AggregateMaterials(dist Distribution, snap *Snapshot) (map[string]map[string]int, error) {
	out := make(map[string]map[string]int, len(dist))
	for label, ids := range dist {
		lines, err := MaterialsForGroup(ids, snap)
		if err != nil {
			return nil, fmt.Errorf("group %s: %w", label, err)
		}
		out[label] = lines
	}
	return out, nil
}
