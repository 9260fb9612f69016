package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// VoucherKind distinguishes money paid out from money received.
type VoucherKind string

const (
	PaymentVoucher VoucherKind = "payment"
	ReceiptVoucher VoucherKind = "receipt"
)

// NumberPrefix is the entry-number style prefix for the kind.
func (k VoucherKind) NumberPrefix() string {
	if k == ReceiptVoucher {
		return "RV-"
	}
	return "PV-"
}

// PaymentMethod is how the voucher amount changed hands.
type PaymentMethod string

const (
	MethodCash         PaymentMethod = "cash"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodCheck        PaymentMethod = "check"
	MethodCreditCard   PaymentMethod = "credit_card"
)

// Voucher is a payment or receipt that produces a two-line journal entry.
type Voucher struct {
	VoucherID        string          `json:"voucherID"`
	VoucherNumber    string          `json:"voucherNumber"`
	Kind             VoucherKind     `json:"kind"`
	VoucherDate      time.Time       `json:"voucherDate"`
	Counterparty     string          `json:"counterparty"`
	Amount           decimal.Decimal `json:"amount"`
	PaymentMethod    PaymentMethod   `json:"paymentMethod"`
	CashAccountID    string          `json:"cashAccountID"`
	CounterAccountID string          `json:"counterAccountID"`
	CheckNumber      *string         `json:"checkNumber,omitempty"`
	Reference        *string         `json:"reference,omitempty"`
	Description      string          `json:"description"`
	PostingState
	AuditFields
}
