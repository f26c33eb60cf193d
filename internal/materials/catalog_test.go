package materials

import (
	"testing"

	"github.com/spec-kit/reclamos-service/internal/domain"
)

func TestMaterialsForInstallation(t *testing.T) {
	bill, ok := MaterialsFor(domain.TicketTypeInstallation)
	if !ok {
		t.Fatalf("installation must be in the catalog")
	}
	if bill["cable"] != 30 || bill[KeyRouter] != 1 || bill["connector"] != 2 {
		t.Fatalf("unexpected installation bill: %v", bill)
	}
}

func TestMaterialsForUnknownType(t *testing.T) {
	if _, ok := MaterialsFor("pole painting"); ok {
		t.Fatalf("unknown type must not resolve")
	}
}

func TestMaterialsForReturnsCopy(t *testing.T) {
	bill, _ := MaterialsFor(domain.TicketTypeInstallation)
	bill["cable"] = 999

	again, _ := MaterialsFor(domain.TicketTypeInstallation)
	if again["cable"] != 30 {
		t.Fatalf("catalog mutated through returned map")
	}
}
