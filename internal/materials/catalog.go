package materials

import "github.com/spec-kit/reclamos-service/internal/domain"

// KeyRouter is rewritten to "router_<vendor>" during aggregation, since the
// router brand handed to a crew depends on the ticket's sector.
const KeyRouter = "router"

// catalog is the per-ticket-type bill of materials. Counts are per ticket;
// cable is in meters, everything else in units.
var catalog = map[string]map[string]int{
	domain.TicketTypeInstallation: {
		"cable":     30,
		KeyRouter:   1,
		"connector": 2,
	},
	domain.TicketTypeFaultRepair: {
		"cable":     10,
		"connector": 2,
	},
	domain.TicketTypeLowSignal: {
		"connector": 1,
		"splitter":  1,
	},
	domain.TicketTypeRouterChange: {
		KeyRouter: 1,
	},
	domain.TicketTypeDisconnectReq: {
		"seal": 1,
	},
}

// MaterialsFor returns the bill of materials for a ticket type. The returned
// map is a copy and safe to mutate.
func MaterialsFor(ticketType string) (map[string]int, bool) {
	bill, ok := catalog[ticketType]
	if !ok {
		return nil, false
	}
	out := make(map[string]int, len(bill))
	for key, count := range bill {
		out[key] = count
	}
	return out, true
}

// KnownTypes lists the ticket types present in the catalog.
func KnownTypes() []string {
	types := make([]string, 0, len(catalog))
	for t := range catalog {
		types = append(types, t)
	}
	return types
}
