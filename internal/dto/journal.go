package dto

import (
	"time"

	"github.com/SscSPs/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateJournalLineRequest is one typed input line of a journal entry.
type CreateJournalLineRequest struct {
	AccountID    string          `json:"accountID" binding:"required"`
	DebitAmount  decimal.Decimal `json:"debitAmount" binding:"gte=0"`
	CreditAmount decimal.Decimal `json:"creditAmount" binding:"gte=0"`
	Description  string          `json:"description" binding:"max=500"`
}

// CreateJournalEntryRequest defines the data needed to create a draft journal entry.
type CreateJournalEntryRequest struct {
	EntryDate   string                     `json:"entryDate" binding:"required,datetime=2006-01-02"`
	Description string                     `json:"description" binding:"required,max=1000"`
	Reference   *string                    `json:"reference" binding:"omitempty,max=255"`
	Lines       []CreateJournalLineRequest `json:"lines" binding:"dive"`
}

// ListJournalEntriesParams are the query parameters of the entry listing.
type ListJournalEntriesParams struct {
	Status    string  `form:"status" binding:"omitempty,oneof=draft posted cancelled"`
	Limit     int     `form:"limit" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// JournalLineResponse defines the data returned for a journal entry line.
type JournalLineResponse struct {
	LineID       string          `json:"lineID"`
	LineNumber   int             `json:"lineNumber"`
	AccountID    string          `json:"accountID"`
	AccountName  string          `json:"accountName"`
	Description  string          `json:"description"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
}

// JournalEntryResponse defines the data returned for a journal entry.
type JournalEntryResponse struct {
	EntryID     string                `json:"entryID"`
	EntryNumber string                `json:"entryNumber"`
	EntryDate   string                `json:"entryDate"`
	Reference   *string               `json:"reference,omitempty"`
	Description string                `json:"description"`
	TotalDebit  decimal.Decimal       `json:"totalDebit"`
	TotalCredit decimal.Decimal       `json:"totalCredit"`
	Status      domain.EntryStatus    `json:"status"`
	CreatedAt   time.Time             `json:"createdAt"`
	CreatedBy   string                `json:"createdBy"`
	PostedAt    *time.Time            `json:"postedAt,omitempty"`
	PostedBy    *string               `json:"postedBy,omitempty"`
	CancelledAt *time.Time            `json:"cancelledAt,omitempty"`
	CancelledBy *string               `json:"cancelledBy,omitempty"`
	Lines       []JournalLineResponse `json:"lines,omitempty"`
}

// ListJournalEntriesResponse is one page of journal entries.
type ListJournalEntriesResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}

// ToJournalEntryResponse converts a domain.JournalEntry (and any loaded lines) to its DTO.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	resp := JournalEntryResponse{
		EntryID:     e.EntryID,
		EntryNumber: e.EntryNumber,
		EntryDate:   e.EntryDate.Format(domain.DateLayout),
		Reference:   e.Reference,
		Description: e.Description,
		TotalDebit:  e.TotalDebit,
		TotalCredit: e.TotalCredit,
		Status:      e.Status,
		CreatedAt:   e.CreatedAt,
		CreatedBy:   e.CreatedBy,
		PostedAt:    e.PostedAt,
		PostedBy:    e.PostedBy,
		CancelledAt: e.CancelledAt,
		CancelledBy: e.CancelledBy,
	}
	if len(e.Lines) > 0 {
		resp.Lines = make([]JournalLineResponse, len(e.Lines))
		for i, l := range e.Lines {
			resp.Lines[i] = JournalLineResponse{
				LineID:       l.LineID,
				LineNumber:   l.LineNumber,
				AccountID:    l.AccountID,
				AccountName:  l.AccountName,
				Description:  l.Description,
				DebitAmount:  l.DebitAmount,
				CreditAmount: l.CreditAmount,
			}
		}
	}
	return resp
}

// ToListJournalEntriesResponse converts a page of entries to its DTO.
func ToListJournalEntriesResponse(entries []domain.JournalEntry, nextToken *string) *ListJournalEntriesResponse {
	resp := &ListJournalEntriesResponse{
		Entries:   make([]JournalEntryResponse, len(entries)),
		NextToken: nextToken,
	}
	for i := range entries {
		resp.Entries[i] = ToJournalEntryResponse(&entries[i])
	}
	return resp
}
