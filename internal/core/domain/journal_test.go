package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestNormalBalanceDelta(t *testing.T) {
	tests := []struct {
		name     string
		typ      AccountType
		debit    string
		credit   string
		expected string
	}{
		{"asset debit increases", Asset, "500", "0", "500"},
		{"asset credit decreases", Asset, "0", "200", "-200"},
		{"expense debit increases", Expense, "75.25", "0", "75.25"},
		{"liability credit increases", Liability, "0", "300", "300"},
		{"equity debit decreases", Equity, "40", "0", "-40"},
		{"revenue credit increases", Revenue, "0", "500", "500"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalBalanceDelta(tt.typ, d(tt.debit), d(tt.credit))
			assert.True(t, d(tt.expected).Equal(got), "expected %s, got %s", tt.expected, got)
		})
	}
}

func TestAccountApplyDelta(t *testing.T) {
	a := Account{AccountType: Asset, CurrentBalance: d("1000")}
	b := Account{AccountType: Revenue, CurrentBalance: decimal.Zero}

	assert.True(t, d("1500").Equal(a.ApplyDelta(d("500"), decimal.Zero)))
	assert.True(t, d("500").Equal(b.ApplyDelta(decimal.Zero, d("500"))))
}

func TestIsBalanced(t *testing.T) {
	assert.True(t, IsBalanced(d("100.00"), d("100.00")))
	assert.True(t, IsBalanced(d("100.01"), d("100.00")))
	assert.False(t, IsBalanced(d("100.02"), d("100.00")))
}

func TestAggregateDeltas_GroupsAndSortsByAccount(t *testing.T) {
	lines := []JournalEntryLine{
		{AccountID: "b", DebitAmount: d("10"), CreditAmount: decimal.Zero},
		{AccountID: "a", DebitAmount: decimal.Zero, CreditAmount: d("25")},
		{AccountID: "b", DebitAmount: d("15"), CreditAmount: decimal.Zero},
	}
	deltas := AggregateDeltas(lines)
	require.Len(t, deltas, 2)
	assert.Equal(t, "a", deltas[0].AccountID)
	assert.True(t, d("25").Equal(deltas[0].Credit))
	assert.Equal(t, "b", deltas[1].AccountID)
	assert.True(t, d("25").Equal(deltas[1].Debit))

	rev := deltas[1].Reversed()
	assert.True(t, d("25").Equal(rev.Credit))
	assert.True(t, rev.Debit.IsZero())
}

func TestFormatSequenceNumber(t *testing.T) {
	assert.Equal(t, "JE-000001", FormatSequenceNumber("JE-", 6, 1))
	assert.Equal(t, "JE-1234567", FormatSequenceNumber("JE-", 6, 1234567))
}

func TestActivityWindowContains(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	w := ActivityWindow{From: &from, To: to}

	assert.True(t, w.Contains(from))
	assert.True(t, w.Contains(to))
	assert.False(t, w.Contains(from.AddDate(0, 0, -1)))
	assert.False(t, w.Contains(to.AddDate(0, 0, 1)))
	assert.True(t, ActivityWindow{To: to}.Contains(time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestFitsAmountScale(t *testing.T) {
	assert.True(t, FitsAmountScale(d("12.3456")))
	assert.True(t, FitsAmountScale(d("12.34560000")))
	assert.True(t, FitsAmountScale(d("-7")))
	assert.False(t, FitsAmountScale(d("12.34567")))
	assert.False(t, FitsAmountScale(d("0.00001")))
}

func TestNewPostingState(t *testing.T) {
	assert.True(t, NewPostingState("e1", EntryPosted).IsPosted)
	assert.False(t, NewPostingState("e1", EntryDraft).IsPosted)

	cancelled := NewPostingState("e1", EntryCancelled)
	assert.False(t, cancelled.IsPosted)
	assert.Equal(t, EntryCancelled, cancelled.EntryStatus)
	assert.Equal(t, "e1", cancelled.JournalEntryID)
}
