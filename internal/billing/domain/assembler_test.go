package billing

import "testing"

func TestAssembleGroupsAndOrders(t *testing.T) {
	categories := []Category{
		{ID: "levies", Name: "Levies", Order: 2},
		{ID: "energy", Name: "Energy", Order: 1},
	}
	components := []BillingComponent{
		{ID: "levy", Order: 3, CategoryID: "levies", Name: "Levy", Method: MethodFlat, Enabled: true},
		{ID: "tier", Order: 2, CategoryID: "energy", Name: "Blocks", Method: MethodFlat, Enabled: true},
		{ID: "base", Order: 1, CategoryID: "energy", Name: "Base", Method: MethodFlat, Enabled: true},
	}
	evaluation := Evaluation{
		Results: map[string]ComponentResult{
			"levy": {Total: 2, Detail: "flat charge 2.0000"},
			"tier": {Total: 20, Detail: "flat charge 20.0000"},
			"base": {Total: 10, Detail: "flat charge 10.0000"},
		},
		GrandTotal: 32,
	}

	bill := Assemble(categories, components, evaluation)
	if len(bill.Categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(bill.Categories))
	}
	if bill.Categories[0].CategoryID != "energy" || bill.Categories[1].CategoryID != "levies" {
		t.Fatalf("expected category order energy, levies; got %s, %s", bill.Categories[0].CategoryID, bill.Categories[1].CategoryID)
	}
	energy := bill.Categories[0]
	if len(energy.Lines) != 2 || energy.Lines[0].ComponentID != "base" || energy.Lines[1].ComponentID != "tier" {
		t.Fatalf("expected component order base, tier; got %+v", energy.Lines)
	}
	if energy.Subtotal != 30 {
		t.Fatalf("expected energy subtotal 30, got %v", energy.Subtotal)
	}
	if bill.GrandTotal != 32 {
		t.Fatalf("expected grand total 32, got %v", bill.GrandTotal)
	}
}

func TestAssembleOmitsEmptyCategoriesAndDisabled(t *testing.T) {
	categories := []Category{
		{ID: "energy", Name: "Energy", Order: 1},
		{ID: "unused", Name: "Unused", Order: 2},
	}
	components := []BillingComponent{
		{ID: "base", Order: 1, CategoryID: "energy", Method: MethodFlat, Enabled: true},
		{ID: "off", Order: 2, CategoryID: "energy", Method: MethodFlat, Enabled: false},
	}
	evaluation := Evaluation{
		Results:    map[string]ComponentResult{"base": {Total: 10}},
		GrandTotal: 10,
	}

	bill := Assemble(categories, components, evaluation)
	if len(bill.Categories) != 1 {
		t.Fatalf("expected empty category omitted, got %d categories", len(bill.Categories))
	}
	for _, line := range bill.Categories[0].Lines {
		if line.ComponentID == "off" {
			t.Fatal("expected disabled component absent from lines")
		}
	}
}
