package memory

import (
	"context"
	"fmt"

	"github.com/SscSPs/ledger_backend/internal/apperrors"
	"github.com/SscSPs/ledger_backend/internal/core/domain"
)

func (s *Store) SaveVoucher(ctx context.Context, voucher domain.Voucher) error {
	return s.write(ctx, func() error {
		if _, taken := s.vouchers[voucher.VoucherID]; taken {
			return fmt.Errorf("%w: voucher %s", apperrors.ErrDuplicate, voucher.VoucherID)
		}
		if _, ok := s.entries[voucher.JournalEntryID]; !ok {
			return apperrors.NewNotFoundError("journal entry", voucher.JournalEntryID)
		}
		s.vouchers[voucher.VoucherID] = voucher
		return nil
	})
}

func (s *Store) FindVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, error) {
	var (
		v  domain.Voucher
		ok bool
	)
	s.read(ctx, func() {
		if v, ok = s.vouchers[voucherID]; ok {
			v.PostingState = s.postingState(v.JournalEntryID)
		}
	})
	if !ok {
		return nil, apperrors.NewNotFoundError("voucher", voucherID)
	}
	return &v, nil
}

// postingState must be called with the store lock held.
func (s *Store) postingState(entryID string) domain.PostingState {
	return domain.NewPostingState(entryID, s.entries[entryID].Status)
}
