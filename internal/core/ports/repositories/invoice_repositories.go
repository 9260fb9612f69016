package repositories

import (
	"context"

	"github.com/SscSPs/ledger_backend/internal/core/domain"
)

// ListInvoicesFilter selects and pages invoices.
type ListInvoicesFilter struct {
	Kind      *domain.InvoiceKind
	Limit     int
	NextToken *string
}

// InvoiceRepositoryFacade stores sales and purchase invoices with their items.
// Reads fill the invoice's PostingState from its journal entry.
type InvoiceRepositoryFacade interface {
	SaveInvoice(ctx context.Context, invoice domain.Invoice) error
	FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)
	// ListInvoices returns invoices newest first, without items, and a token for the next page.
	ListInvoices(ctx context.Context, filter ListInvoicesFilter) ([]domain.Invoice, *string, error)
}
