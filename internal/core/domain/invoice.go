package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceKind distinguishes invoices issued to customers from those received from suppliers.
type InvoiceKind string

const (
	SalesInvoice    InvoiceKind = "sales"
	PurchaseInvoice InvoiceKind = "purchase"
)

// Valid reports whether k is a known kind.
func (k InvoiceKind) Valid() bool {
	return k == SalesInvoice || k == PurchaseInvoice
}

// NumberPrefix is the invoice number prefix for the kind.
func (k InvoiceKind) NumberPrefix() string {
	if k == PurchaseInvoice {
		return "PI-"
	}
	return "SI-"
}

// InvoiceItem is one priced line of an invoice.
type InvoiceItem struct {
	LineNumber     int             `json:"lineNumber"`
	Description    string          `json:"description"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unitPrice"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	LineTotal      decimal.Decimal `json:"lineTotal"`
}

// Invoice is a sales or purchase invoice that produces one journal entry.
//
// A sales invoice debits the party (receivable) account with the total and
// credits the items (revenue) account with the net amount and the tax account
// with the tax. A purchase invoice mirrors it: items (expense or inventory) and
// tax are debited, the party (payable) account is credited.
type Invoice struct {
	InvoiceID      string          `json:"invoiceID"`
	InvoiceNumber  string          `json:"invoiceNumber"`
	Kind           InvoiceKind     `json:"kind"`
	InvoiceDate    time.Time       `json:"invoiceDate"`
	PartyName      string          `json:"partyName"`
	PartyAccountID string          `json:"partyAccountID"`
	ItemsAccountID string          `json:"itemsAccountID"`
	TaxAccountID   *string         `json:"taxAccountID,omitempty"`
	Items          []InvoiceItem   `json:"items"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	TaxAmount      decimal.Decimal `json:"taxAmount"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	Notes          *string         `json:"notes,omitempty"`
	PostingState
	AuditFields
}

// ComputeTotals sets every item's line total, rounded to AmountScale, and the
// invoice subtotal and total. The invoice discount and tax must already be set.
func (inv *Invoice) ComputeTotals() {
	inv.Subtotal = decimal.Zero
	for i := range inv.Items {
		it := &inv.Items[i]
		it.LineNumber = i + 1
		it.LineTotal = it.Quantity.Mul(it.UnitPrice).Sub(it.DiscountAmount).Round(AmountScale)
		inv.Subtotal = inv.Subtotal.Add(it.LineTotal)
	}
	inv.TotalAmount = inv.NetAmount().Add(inv.TaxAmount)
}

// NetAmount is the subtotal after the invoice-level discount, before tax.
func (inv *Invoice) NetAmount() decimal.Decimal {
	return inv.Subtotal.Sub(inv.DiscountAmount)
}
