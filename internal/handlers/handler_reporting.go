package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/ledger_backend/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_backend/internal/core/ports/services"
	"github.com/SscSPs/ledger_backend/internal/dto"
	"github.com/SscSPs/ledger_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler serves the read-only financial reports.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := &reportingHandler{reportingService: reportingService}

	reports := rg.Group("/reports")
	{
		reports.GET("/trial-balance", h.getTrialBalance)
		reports.GET("/income-statement", h.getIncomeStatement)
		reports.GET("/balance-sheet", h.getBalanceSheet)
	}
}

// bindPeriod parses the fromDate/toDate query pair, writing a 400 on failure.
func bindPeriod(c *gin.Context) (time.Time, time.Time, bool) {
	var params dto.ReportPeriodParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return time.Time{}, time.Time{}, false
	}
	// The binding already checked the layout.
	from, _ := time.Parse(domain.DateLayout, params.FromDate)
	to, _ := time.Parse(domain.DateLayout, params.ToDate)
	if from.After(to) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fromDate must not be after toDate"})
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

// getTrialBalance godoc
// @Summary Trial balance
// @Description Every active account with posted debits and credits in the period and its closing balance.
// @Tags reports
// @Produce  json
// @Param   fromDate query string true "Start date (YYYY-MM-DD)"
// @Param   toDate query string true "End date (YYYY-MM-DD)"
// @Success 200 {object} domain.TrialBalance
// @Failure 400 {object} map[string]string "Invalid period"
// @Security BearerAuth
// @Router /reports/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	from, to, ok := bindPeriod(c)
	if !ok {
		return
	}

	report, err := h.reportingService.TrialBalance(c.Request.Context(), from, to)
	if err != nil {
		respondWithError(c, logger, err, "Failed to build trial balance")
		return
	}
	c.JSON(http.StatusOK, report)
}

// getIncomeStatement godoc
// @Summary Income statement
// @Tags reports
// @Produce  json
// @Param   fromDate query string true "Start date (YYYY-MM-DD)"
// @Param   toDate query string true "End date (YYYY-MM-DD)"
// @Success 200 {object} domain.IncomeStatement
// @Failure 400 {object} map[string]string "Invalid period"
// @Security BearerAuth
// @Router /reports/income-statement [get]
func (h *reportingHandler) getIncomeStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	from, to, ok := bindPeriod(c)
	if !ok {
		return
	}

	report, err := h.reportingService.IncomeStatement(c.Request.Context(), from, to)
	if err != nil {
		respondWithError(c, logger, err, "Failed to build income statement")
		return
	}
	c.JSON(http.StatusOK, report)
}

// getBalanceSheet godoc
// @Summary Balance sheet
// @Tags reports
// @Produce  json
// @Param   asOf query string true "Cutoff date (YYYY-MM-DD)"
// @Success 200 {object} domain.BalanceSheet
// @Security BearerAuth
// @Router /reports/balance-sheet [get]
func (h *reportingHandler) getBalanceSheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.BalanceSheetParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	asOf, _ := time.Parse(domain.DateLayout, params.AsOf)

	report, err := h.reportingService.BalanceSheet(c.Request.Context(), asOf)
	if err != nil {
		respondWithError(c, logger.With(slog.String("as_of", params.AsOf)), err, "Failed to build balance sheet")
		return
	}
	c.JSON(http.StatusOK, report)
}
