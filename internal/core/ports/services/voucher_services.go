package services

import (
	"context"

	"github.com/SscSPs/ledger_backend/internal/core/domain"
	"github.com/SscSPs/ledger_backend/internal/dto"
)

// VoucherSvcFacade produces journal entries from payment and receipt vouchers.
type VoucherSvcFacade interface {
	CreateVoucher(ctx context.Context, kind domain.VoucherKind, req dto.CreateVoucherRequest, creatorUserID string) (*domain.Voucher, error)
	GetVoucher(ctx context.Context, voucherID string) (*domain.Voucher, error)
	// PostVoucher posts the voucher's journal entry.
	PostVoucher(ctx context.Context, voucherID string, actor string) (*domain.Voucher, error)
}
