package services

import (
	"context"

	"github.com/SscSPs/ledger_backend/internal/core/domain"
	"github.com/SscSPs/ledger_backend/internal/dto"
)

// InvoiceSvcFacade produces journal entries from sales and purchase invoices.
type InvoiceSvcFacade interface {
	CreateInvoice(ctx context.Context, kind domain.InvoiceKind, req dto.CreateInvoiceRequest, creatorUserID string) (*domain.Invoice, error)
	GetInvoice(ctx context.Context, invoiceID string) (*domain.Invoice, error)
	ListInvoices(ctx context.Context, params dto.ListInvoicesParams) (*dto.ListInvoicesResponse, error)
	// PostInvoice posts the invoice's journal entry.
	PostInvoice(ctx context.Context, invoiceID string, actor string) (*domain.Invoice, error)
}
