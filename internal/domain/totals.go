package domain

import "math"

// TaxRate is the VAT rate applied to every invoice and purchase order.
const TaxRate = 0.12

// ComputeInvoiceTotals recomputes line subtotals and returns subtotal, tax
// and total in cents. Stored-in-line subtotals are overwritten; totals are
// never accepted from callers.
func ComputeInvoiceTotals(lines []InvoiceLine) (subtotal, tax, total int64) {
	for i := range lines {
		lines[i].LineSubtotalCents = int64(lines[i].Quantity) * lines[i].UnitPriceCents
		subtotal += lines[i].LineSubtotalCents
	}
	tax = int64(math.Round(float64(subtotal) * TaxRate))
	total = subtotal + tax
	return subtotal, tax, total
}

func ComputePurchaseOrderTotals(lines []PurchaseOrderLine) (subtotal, tax, total int64) {
	for i := range lines {
		lines[i].LineSubtotalCents = int64(lines[i].Quantity) * lines[i].UnitPriceCents
		subtotal += lines[i].LineSubtotalCents
	}
	tax = int64(math.Round(float64(subtotal) * TaxRate))
	total = subtotal + tax
	return subtotal, tax, total
}
