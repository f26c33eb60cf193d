package sheets

import "testing"

func TestParseCustomerRow(t *testing.T) {
	customer, err := parseCustomerRow([]string{"C-1001", "Juan Perez", "Av. Mitre 120", "555-0101", "S-88"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if customer.Number != "C-1001" || customer.Name != "Juan Perez" {
		t.Fatalf("parsed %+v", customer)
	}
	if customer.Address != "Av. Mitre 120" || customer.Phone != "555-0101" || customer.SealNumber != "S-88" {
		t.Fatalf("optional cells lost: %+v", customer)
	}
}

func TestParseCustomerRowShortRow(t *testing.T) {
	// Address, phone and seal columns are often left blank in the sheet.
	customer, err := parseCustomerRow([]string{" C-7 ", "Ana"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if customer.Number != "C-7" || customer.Address != "" {
		t.Fatalf("parsed %+v", customer)
	}
}

func TestParseCustomerRowRejectsBadRows(t *testing.T) {
	if _, err := parseCustomerRow([]string{"only-number"}); err == nil {
		t.Fatal("single-cell row was accepted")
	}
	if _, err := parseCustomerRow([]string{"  ", "Sin Numero"}); err == nil {
		t.Fatal("blank customer number was accepted")
	}
}
