package domain

import (
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus is the lifecycle state of a journal entry.
type EntryStatus string

const (
	EntryDraft     EntryStatus = "draft"
	EntryPosted    EntryStatus = "posted"
	EntryCancelled EntryStatus = "cancelled"
)

// Valid reports whether s is a known status.
func (s EntryStatus) Valid() bool {
	switch s {
	case EntryDraft, EntryPosted, EntryCancelled:
		return true
	}
	return false
}

// BalanceTolerance is the largest accepted |debit - credit| difference of an entry.
var BalanceTolerance = decimal.New(1, -2)

// IsBalanced reports whether debit and credit agree within BalanceTolerance.
func IsBalanced(debit, credit decimal.Decimal) bool {
	return debit.Sub(credit).Abs().LessThanOrEqual(BalanceTolerance)
}

// FormatSequenceNumber renders a counter value as prefix plus a zero-padded number.
func FormatSequenceNumber(prefix string, width int, value int64) string {
	return fmt.Sprintf("%s%0*d", prefix, width, value)
}

// JournalEntry is the header of a balanced set of debit/credit lines.
type JournalEntry struct {
	EntryID     string          `json:"entryID"`
	EntryNumber string          `json:"entryNumber"`
	EntryDate   time.Time       `json:"entryDate"`
	Reference   *string         `json:"reference,omitempty"`
	Description string          `json:"description"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
	Status      EntryStatus     `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
	CreatedBy   string          `json:"createdBy"`
	PostedAt    *time.Time      `json:"postedAt,omitempty"`
	PostedBy    *string         `json:"postedBy,omitempty"`
	CancelledAt *time.Time      `json:"cancelledAt,omitempty"`
	CancelledBy *string         `json:"cancelledBy,omitempty"`

	Lines []JournalEntryLine `json:"lines,omitempty"`
}

// PostingState is what a voucher or invoice knows about the journal entry it
// produced. It is read from the entry, never stored, so it cannot drift when the
// entry is posted or cancelled directly.
type PostingState struct {
	JournalEntryID string      `json:"journalEntryID"`
	EntryStatus    EntryStatus `json:"entryStatus"`
	IsPosted       bool        `json:"isPosted"`
}

// NewPostingState derives the posting state from the entry's current status.
func NewPostingState(entryID string, status EntryStatus) PostingState {
	return PostingState{JournalEntryID: entryID, EntryStatus: status, IsPosted: status == EntryPosted}
}

// JournalEntryLine is one debit or credit against a single account.
type JournalEntryLine struct {
	LineID         string          `json:"lineID"`
	JournalEntryID string          `json:"journalEntryID"`
	AccountID      string          `json:"accountID"`
	AccountName    string          `json:"accountName"`
	Description    string          `json:"description"`
	DebitAmount    decimal.Decimal `json:"debitAmount"`
	CreditAmount   decimal.Decimal `json:"creditAmount"`
	LineNumber     int             `json:"lineNumber"`
}

// AggregateDeltas sums lines per account, ordered by account id so that callers
// acquire account locks in a stable order.
func AggregateDeltas(lines []JournalEntryLine) []BalanceDelta {
	byAccount := make(map[string]*BalanceDelta, len(lines))
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		d, ok := byAccount[l.AccountID]
		if !ok {
			d = &BalanceDelta{AccountID: l.AccountID, Debit: decimal.Zero, Credit: decimal.Zero}
			byAccount[l.AccountID] = d
			ids = append(ids, l.AccountID)
		}
		d.Debit = d.Debit.Add(l.DebitAmount)
		d.Credit = d.Credit.Add(l.CreditAmount)
	}
	slices.Sort(ids)
	out := make([]BalanceDelta, 0, len(ids))
	for _, id := range ids {
		out = append(out, *byAccount[id])
	}
	return out
}

// Reversed swaps debit and credit, producing the compensating delta.
func (d BalanceDelta) Reversed() BalanceDelta {
	return BalanceDelta{AccountID: d.AccountID, Debit: d.Credit, Credit: d.Debit}
}
