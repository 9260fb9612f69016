package dto

// ReportPeriodParams bounds period reports such as the trial balance.
type ReportPeriodParams struct {
	FromDate string `form:"fromDate" binding:"required,datetime=2006-01-02"`
	ToDate   string `form:"toDate" binding:"required,datetime=2006-01-02"`
}

// BalanceSheetParams selects the cutoff date of a balance sheet.
type BalanceSheetParams struct {
	AsOf string `form:"asOf" binding:"required,datetime=2006-01-02"`
}
