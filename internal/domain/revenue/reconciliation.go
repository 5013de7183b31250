package revenue

import "github.com/shopspring/decimal"

// UnknownInvoice marks an allocation whose invoice row is missing. Such
// allocations are listed but never counted as accumulated.
const UnknownInvoice = "Unknown"

// ItemInvoice is one invoice allocation applied to a project item.
type ItemInvoice struct {
	InvoiceID        uint
	InvoiceNumber    string
	InvoicedQuantity decimal.Decimal
}

// ReconciledItem is a project item annotated with its invoiced and pending amounts.
type ReconciledItem struct {
	ProjectItem
	Invoices            []ItemInvoice
	AccumulatedQuantity decimal.Decimal
	AccumulatedValue    decimal.Decimal
	PendingQuantity     decimal.Decimal
	PendingValue        decimal.Decimal
}

// ContractGroup collects reconciled items sharing a contract.
type ContractGroup struct {
	Contract       string
	InvoiceNumbers []string
	Items          []ReconciledItem
}

// InvoiceSummary is the reconciliation of a project's items against issued invoices.
type InvoiceSummary struct {
	Contracts        []ContractGroup
	TotalAccumulated decimal.Decimal
	TotalPending     decimal.Decimal
}

// ReconcileInvoices matches allocations to project items and groups the
// result by contract. Allocation invoice numbers resolve against invoices,
// the complete invoice table; each contract lists the numbers of
// centerInvoices issued under it. Groups keep the first-seen order of items.
func ReconcileInvoices(items []ProjectItem, allocations []InvoiceProjectItem, invoices, centerInvoices []Invoice) InvoiceSummary {
	invoiceByID := make(map[uint]Invoice, len(invoices))
	for _, inv := range invoices {
		invoiceByID[inv.ID] = inv
	}

	byItem := make(map[uint][]InvoiceProjectItem)
	for _, a := range allocations {
		byItem[a.ProjectItemID] = append(byItem[a.ProjectItemID], a)
	}

	summary := InvoiceSummary{
		TotalAccumulated: decimal.Zero,
		TotalPending:     decimal.Zero,
	}
	groupIndex := make(map[string]int)

	for _, item := range items {
		reconciled := ReconciledItem{
			ProjectItem:         item,
			Invoices:            []ItemInvoice{},
			AccumulatedQuantity: decimal.Zero,
		}
		for _, a := range byItem[item.ID] {
			number := UnknownInvoice
			if inv, ok := invoiceByID[a.InvoiceID]; ok {
				number = inv.InvoiceNumber
			}
			reconciled.Invoices = append(reconciled.Invoices, ItemInvoice{
				InvoiceID:        a.InvoiceID,
				InvoiceNumber:    number,
				InvoicedQuantity: a.InvoicedQuantity,
			})
			if number != UnknownInvoice {
				reconciled.AccumulatedQuantity = reconciled.AccumulatedQuantity.Add(a.InvoicedQuantity)
			}
		}
		reconciled.AccumulatedValue = reconciled.AccumulatedQuantity.Mul(item.UnitPrice)
		reconciled.PendingQuantity = item.Quantity.Sub(reconciled.AccumulatedQuantity)
		reconciled.PendingValue = item.Total.Sub(reconciled.AccumulatedValue)

		summary.TotalAccumulated = summary.TotalAccumulated.Add(reconciled.AccumulatedValue)
		summary.TotalPending = summary.TotalPending.Add(reconciled.PendingValue)

		idx, ok := groupIndex[item.Contract]
		if !ok {
			idx = len(summary.Contracts)
			groupIndex[item.Contract] = idx
			summary.Contracts = append(summary.Contracts, ContractGroup{
				Contract:       item.Contract,
				InvoiceNumbers: invoiceNumbersFor(item.Contract, centerInvoices),
			})
		}
		summary.Contracts[idx].Items = append(summary.Contracts[idx].Items, reconciled)
	}
	return summary
}

func invoiceNumbersFor(contract string, invoices []Invoice) []string {
	numbers := []string{}
	seen := make(map[string]struct{})
	for _, inv := range invoices {
		if inv.Contract != contract {
			continue
		}
		if _, dup := seen[inv.InvoiceNumber]; dup {
			continue
		}
		seen[inv.InvoiceNumber] = struct{}{}
		numbers = append(numbers, inv.InvoiceNumber)
	}
	return numbers
}
