package geo

import "testing"

func TestZonesPartitionSectorUniverse(t *testing.T) {
	if err := Validate(); err != nil {
		t.Fatalf("static tables invalid: %v", err)
	}
	for s := 1; s <= SectorCount; s++ {
		if _, ok := ZoneOf(s); !ok {
			t.Fatalf("sector %d has no zone", s)
		}
	}
	if _, ok := ZoneOf(0); ok {
		t.Fatalf("sector 0 should not resolve")
	}
	if _, ok := ZoneOf(SectorCount + 1); ok {
		t.Fatalf("sector %d should not resolve", SectorCount+1)
	}
}

func TestCompatibilityEvaluatedSymmetrically(t *testing.T) {
	// Zona 3 lists Zona 2 but not vice versa; the lookup must still hold in
	// both directions.
	if !Compatible(Zone2, Zone3) || !Compatible(Zone3, Zone2) {
		t.Fatalf("Zona 2 / Zona 3 compatibility must be symmetric in use")
	}
	if Compatible(Zone1, Zone2) {
		t.Fatalf("Zona 1 and Zona 2 are not neighbors")
	}
	if Compatible(Zone1, Zone4) {
		t.Fatalf("Zona 1 and Zona 4 are not neighbors")
	}
}

func TestCompatibleWithAny(t *testing.T) {
	if !CompatibleWithAny(Zone5, nil) {
		t.Fatalf("empty set always qualifies")
	}
	if !CompatibleWithAny(Zone5, []Zone{Zone2, Zone3}) {
		t.Fatalf("Zona 5 is compatible with Zona 3")
	}
	if CompatibleWithAny(Zone4, []Zone{Zone1, Zone5}) {
		t.Fatalf("Zona 4 has no neighbor in {Zona 1, Zona 5}")
	}
}

func TestCompatibilityDegree(t *testing.T) {
	// Zona 3 touches every other zone; it is the most central.
	if got := CompatibilityDegree(Zone3); got != 4 {
		t.Fatalf("expected degree 4 for Zona 3, got %d", got)
	}
	if got := CompatibilityDegree(Zone4); got != 2 {
		t.Fatalf("expected degree 2 for Zona 4, got %d", got)
	}
}

func TestRouterVendorForSector(t *testing.T) {
	if got := RouterVendorFor(5); got != "huawei" {
		t.Fatalf("sector 5: expected huawei, got %s", got)
	}
	if got := RouterVendorFor(15); got != "zte" {
		t.Fatalf("sector 15: expected zte, got %s", got)
	}
	if got := RouterVendorFor(1); got != "tplink" {
		t.Fatalf("sector 1: expected default tplink, got %s", got)
	}
}
