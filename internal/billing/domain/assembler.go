package billing

import "sort"

// BillLine is one component on the assembled bill.
type BillLine struct {
	ComponentID   string
	ComponentName string
	Total         float64
	Detail        string
}

// CategoryBreakdown groups a category's lines with their subtotal.
type CategoryBreakdown struct {
	CategoryID   string
	CategoryName string
	Subtotal     float64
	Lines        []BillLine
}

// AssembledBill is the final itemized bill.
type AssembledBill struct {
	Categories []CategoryBreakdown
	GrandTotal float64
}

// Assemble groups the evaluated components by category, in category order
// then component order, with per-category subtotals. Categories with no
// evaluated components are omitted. Totals come straight from the
// evaluation; nothing is recomputed.
func Assemble(categories []Category, components []BillingComponent, evaluation Evaluation) AssembledBill {
	orderedCategories := make([]Category, len(categories))
	copy(orderedCategories, categories)
	sort.SliceStable(orderedCategories, func(i, j int) bool { return orderedCategories[i].Order < orderedCategories[j].Order })

	orderedComponents := make([]BillingComponent, len(components))
	copy(orderedComponents, components)
	sort.SliceStable(orderedComponents, func(i, j int) bool { return orderedComponents[i].Order < orderedComponents[j].Order })

	bill := AssembledBill{GrandTotal: evaluation.GrandTotal}
	for _, category := range orderedCategories {
		breakdown := CategoryBreakdown{CategoryID: category.ID, CategoryName: category.Name}
		for _, component := range orderedComponents {
			if component.CategoryID != category.ID || !component.Enabled {
				continue
			}
			result, ok := evaluation.Results[component.ID]
			if !ok {
				continue
			}
			breakdown.Lines = append(breakdown.Lines, BillLine{
				ComponentID:   component.ID,
				ComponentName: component.Name,
				Total:         result.Total,
				Detail:        result.Detail,
			})
			breakdown.Subtotal += result.Total
		}
		if len(breakdown.Lines) == 0 {
			continue
		}
		bill.Categories = append(bill.Categories, breakdown)
	}
	return bill
}
