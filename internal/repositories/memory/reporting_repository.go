package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/SscSPs/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AggregateActivity joins lines with their posted entries and sums them per
// account, all under one read lock.
func (s *Store) AggregateActivity(ctx context.Context, window domain.ActivityWindow) ([]domain.AccountActivity, error) {
	var out []domain.AccountActivity
	s.read(ctx, func() {
		byAccount := make(map[string]*domain.AccountActivity, len(s.accounts))
		out = make([]domain.AccountActivity, 0, len(s.accounts))
		for _, a := range s.accounts {
			out = append(out, domain.AccountActivity{Account: a, TotalDebit: decimal.Zero, TotalCredit: decimal.Zero})
		}
		slices.SortFunc(out, func(a, b domain.AccountActivity) int {
			return strings.Compare(a.Account.AccountCode, b.Account.AccountCode)
		})
		for i := range out {
			byAccount[out[i].Account.AccountID] = &out[i]
		}

		for entryID, e := range s.entries {
			if e.Status != domain.EntryPosted || !window.Contains(e.EntryDate) {
				continue
			}
			for _, l := range s.lines[entryID] {
				act, ok := byAccount[l.AccountID]
				if !ok {
					continue
				}
				act.TotalDebit = act.TotalDebit.Add(l.DebitAmount)
				act.TotalCredit = act.TotalCredit.Add(l.CreditAmount)
			}
		}
	})
	return out, nil
}
