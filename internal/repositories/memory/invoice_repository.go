package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/SscSPs/ledger_backend/internal/apperrors"
	"github.com/SscSPs/ledger_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_backend/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_backend/internal/utils/pagination"
)

func (s *Store) SaveInvoice(ctx context.Context, invoice domain.Invoice) error {
	return s.write(ctx, func() error {
		if _, taken := s.invoices[invoice.InvoiceID]; taken {
			return fmt.Errorf("%w: invoice %s", apperrors.ErrDuplicate, invoice.InvoiceID)
		}
		if _, ok := s.entries[invoice.JournalEntryID]; !ok {
			return apperrors.NewNotFoundError("journal entry", invoice.JournalEntryID)
		}
		invoice.Items = slices.Clone(invoice.Items)
		s.invoices[invoice.InvoiceID] = invoice
		return nil
	})
}

func (s *Store) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	var (
		inv domain.Invoice
		ok  bool
	)
	s.read(ctx, func() {
		if inv, ok = s.invoices[invoiceID]; ok {
			inv.Items = slices.Clone(inv.Items)
			inv.PostingState = s.postingState(inv.JournalEntryID)
		}
	})
	if !ok {
		return nil, apperrors.NewNotFoundError("invoice", invoiceID)
	}
	return &inv, nil
}

func (s *Store) ListInvoices(ctx context.Context, filter portsrepo.ListInvoicesFilter) ([]domain.Invoice, *string, error) {
	var cursor *pagination.Cursor
	if filter.NextToken != nil && *filter.NextToken != "" {
		c, err := pagination.DecodeToken(*filter.NextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		cursor = &c
	}

	var all []domain.Invoice
	s.read(ctx, func() {
		all = make([]domain.Invoice, 0, len(s.invoices))
		for _, inv := range s.invoices {
			if filter.Kind != nil && inv.Kind != *filter.Kind {
				continue
			}
			if cursor != nil && !cursor.Before(inv.InvoiceDate, inv.CreatedAt, inv.InvoiceID) {
				continue
			}
			inv.Items = nil
			inv.PostingState = s.postingState(inv.JournalEntryID)
			all = append(all, inv)
		}
	})
	slices.SortFunc(all, func(a, b domain.Invoice) int {
		if c := b.InvoiceDate.Compare(a.InvoiceDate); c != 0 {
			return c
		}
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.InvoiceID, a.InvoiceID)
	})

	if len(all) <= filter.Limit {
		return all, nil, nil
	}
	page := all[:filter.Limit]
	last := page[len(page)-1]
	next := pagination.EncodeToken(pagination.Cursor{Date: last.InvoiceDate, CreatedAt: last.CreatedAt, ID: last.InvoiceID})
	return page, &next, nil
}
