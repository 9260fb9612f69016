package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}

// DateLayout is the calendar-date format used for entry, voucher and report dates.
const DateLayout = "2006-01-02"

// AmountScale is the number of decimal places amounts are stored with.
const AmountScale = 4

// FitsAmountScale reports whether d carries no significant digits beyond AmountScale.
func FitsAmountScale(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(AmountScale))
}
