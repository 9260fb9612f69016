package dto

import (
	"time"

	"github.com/SscSPs/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateInvoiceItemRequest is one priced input line of an invoice.
type CreateInvoiceItemRequest struct {
	Description    string          `json:"description" binding:"required,max=500"`
	Quantity       decimal.Decimal `json:"quantity" binding:"gt=0"`
	UnitPrice      decimal.Decimal `json:"unitPrice" binding:"gte=0"`
	DiscountAmount decimal.Decimal `json:"discountAmount" binding:"gte=0"`
}

// CreateInvoiceRequest defines a sales or purchase invoice.
// PartyAccountID is the customer receivable or supplier payable account and
// ItemsAccountID the revenue or expense account the items are booked to.
type CreateInvoiceRequest struct {
	InvoiceDate    string                     `json:"invoiceDate" binding:"required,datetime=2006-01-02"`
	PartyName      string                     `json:"partyName" binding:"required,max=255"`
	PartyAccountID string                     `json:"partyAccountID" binding:"required"`
	ItemsAccountID string                     `json:"itemsAccountID" binding:"required,nefield=PartyAccountID"`
	TaxAccountID   *string                    `json:"taxAccountID"`
	DiscountAmount decimal.Decimal            `json:"discountAmount" binding:"gte=0"`
	TaxAmount      decimal.Decimal            `json:"taxAmount" binding:"gte=0"`
	Notes          *string                    `json:"notes" binding:"omitempty,max=1000"`
	Items          []CreateInvoiceItemRequest `json:"items" binding:"required,min=1,dive"`
}

// ListInvoicesParams are the query parameters of the invoice listing.
type ListInvoicesParams struct {
	Kind      string  `form:"kind" binding:"omitempty,oneof=sales purchase"`
	Limit     int     `form:"limit" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// InvoiceResponse defines the data returned for an invoice.
type InvoiceResponse struct {
	InvoiceID      string               `json:"invoiceID"`
	InvoiceNumber  string               `json:"invoiceNumber"`
	Kind           domain.InvoiceKind   `json:"kind"`
	InvoiceDate    string               `json:"invoiceDate"`
	PartyName      string               `json:"partyName"`
	PartyAccountID string               `json:"partyAccountID"`
	ItemsAccountID string               `json:"itemsAccountID"`
	TaxAccountID   *string              `json:"taxAccountID,omitempty"`
	Items          []domain.InvoiceItem `json:"items,omitempty"`
	Subtotal       decimal.Decimal      `json:"subtotal"`
	DiscountAmount decimal.Decimal      `json:"discountAmount"`
	TaxAmount      decimal.Decimal      `json:"taxAmount"`
	TotalAmount    decimal.Decimal      `json:"totalAmount"`
	Notes          *string              `json:"notes,omitempty"`
	JournalEntryID string               `json:"journalEntryID"`
	EntryStatus    domain.EntryStatus   `json:"entryStatus"`
	IsPosted       bool                 `json:"isPosted"`
	CreatedAt      time.Time            `json:"createdAt"`
	CreatedBy      string               `json:"createdBy"`
}

// ListInvoicesResponse is one page of invoices.
type ListInvoicesResponse struct {
	Invoices  []InvoiceResponse `json:"invoices"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToInvoiceResponse converts a domain.Invoice to its DTO.
func ToInvoiceResponse(inv *domain.Invoice) InvoiceResponse {
	return InvoiceResponse{
		InvoiceID:      inv.InvoiceID,
		InvoiceNumber:  inv.InvoiceNumber,
		Kind:           inv.Kind,
		InvoiceDate:    inv.InvoiceDate.Format(domain.DateLayout),
		PartyName:      inv.PartyName,
		PartyAccountID: inv.PartyAccountID,
		ItemsAccountID: inv.ItemsAccountID,
		TaxAccountID:   inv.TaxAccountID,
		Items:          inv.Items,
		Subtotal:       inv.Subtotal,
		DiscountAmount: inv.DiscountAmount,
		TaxAmount:      inv.TaxAmount,
		TotalAmount:    inv.TotalAmount,
		Notes:          inv.Notes,
		JournalEntryID: inv.JournalEntryID,
		EntryStatus:    inv.EntryStatus,
		IsPosted:       inv.IsPosted,
		CreatedAt:      inv.CreatedAt,
		CreatedBy:      inv.CreatedBy,
	}
}

// ToListInvoicesResponse converts a page of invoices to its DTO.
func ToListInvoicesResponse(invoices []domain.Invoice, nextToken *string) *ListInvoicesResponse {
	resp := &ListInvoicesResponse{
		Invoices:  make([]InvoiceResponse, len(invoices)),
		NextToken: nextToken,
	}
	for i := range invoices {
		resp.Invoices[i] = ToInvoiceResponse(&invoices[i])
	}
	return resp
}
