package repositories

import (
	"context"

	"github.com/SscSPs/ledger_backend/internal/core/domain"
)

// VoucherRepositoryFacade stores payment and receipt vouchers. Reads fill the
// voucher's PostingState from its journal entry.
type VoucherRepositoryFacade interface {
	SaveVoucher(ctx context.Context, voucher domain.Voucher) error
	FindVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, error)
}
