package dto

import (
	"time"

	"github.com/SscSPs/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateVoucherRequest defines a payment or receipt voucher.
// For a payment the counter account is debited and the cash account credited;
// a receipt does the opposite.
type CreateVoucherRequest struct {
	VoucherDate      string               `json:"voucherDate" binding:"required,datetime=2006-01-02"`
	Counterparty     string               `json:"counterparty" binding:"required,max=255"`
	Amount           decimal.Decimal      `json:"amount" binding:"gt=0"`
	PaymentMethod    domain.PaymentMethod `json:"paymentMethod" binding:"required,oneof=cash bank_transfer check credit_card"`
	CashAccountID    string               `json:"cashAccountID" binding:"required"`
	CounterAccountID string               `json:"counterAccountID" binding:"required,nefield=CashAccountID"`
	CheckNumber      *string              `json:"checkNumber" binding:"required_if=PaymentMethod check"`
	Reference        *string              `json:"reference"`
	Description      string               `json:"description" binding:"max=1000"`
}

// VoucherResponse defines the data returned for a voucher.
type VoucherResponse struct {
	VoucherID        string               `json:"voucherID"`
	VoucherNumber    string               `json:"voucherNumber"`
	Kind             domain.VoucherKind   `json:"kind"`
	VoucherDate      string               `json:"voucherDate"`
	Counterparty     string               `json:"counterparty"`
	Amount           decimal.Decimal      `json:"amount"`
	PaymentMethod    domain.PaymentMethod `json:"paymentMethod"`
	CashAccountID    string               `json:"cashAccountID"`
	CounterAccountID string               `json:"counterAccountID"`
	CheckNumber      *string              `json:"checkNumber,omitempty"`
	Reference        *string              `json:"reference,omitempty"`
	Description      string               `json:"description"`
	JournalEntryID   string               `json:"journalEntryID"`
	EntryStatus      domain.EntryStatus   `json:"entryStatus"`
	IsPosted         bool                 `json:"isPosted"`
	CreatedAt        time.Time            `json:"createdAt"`
	CreatedBy        string               `json:"createdBy"`
}

// ToVoucherResponse converts a domain.Voucher to VoucherResponse DTO.
func ToVoucherResponse(v *domain.Voucher) VoucherResponse {
	return VoucherResponse{
		VoucherID:        v.VoucherID,
		VoucherNumber:    v.VoucherNumber,
		Kind:             v.Kind,
		VoucherDate:      v.VoucherDate.Format(domain.DateLayout),
		Counterparty:     v.Counterparty,
		Amount:           v.Amount,
		PaymentMethod:    v.PaymentMethod,
		CashAccountID:    v.CashAccountID,
		CounterAccountID: v.CounterAccountID,
		CheckNumber:      v.CheckNumber,
		Reference:        v.Reference,
		Description:      v.Description,
		JournalEntryID:   v.JournalEntryID,
		EntryStatus:      v.EntryStatus,
		IsPosted:         v.IsPosted,
		CreatedAt:        v.CreatedAt,
		CreatedBy:        v.CreatedBy,
	}
}
