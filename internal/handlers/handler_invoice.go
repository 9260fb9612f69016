package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/ledger_backend/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_backend/internal/core/ports/services"
	"github.com/SscSPs/ledger_backend/internal/dto"
	"github.com/SscSPs/ledger_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type invoiceHandler struct {
	invoiceService portssvc.InvoiceSvcFacade
}

func registerInvoiceRoutes(rg *gin.RouterGroup, invoiceService portssvc.InvoiceSvcFacade) {
	h := &invoiceHandler{invoiceService: invoiceService}

	invoices := rg.Group("/invoices")
	{
		invoices.POST("/sales", h.createInvoice(domain.SalesInvoice))
		invoices.POST("/purchases", h.createInvoice(domain.PurchaseInvoice))
		invoices.GET("", h.listInvoices)
		invoices.GET("/:invoiceID", h.getInvoice)
		invoices.PUT("/:invoiceID/post", h.postInvoice)
	}
}

// createInvoice godoc
// @Summary Create a sales or purchase invoice
// @Description Computes the invoice totals and creates its draft journal entry.
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   invoice body dto.CreateInvoiceRequest true "Invoice details"
// @Success 201 {object} dto.InvoiceResponse
// @Failure 400 {object} map[string]string "Invalid input or unknown account"
// @Security BearerAuth
// @Router /invoices/sales [post]
// @Router /invoices/purchases [post]
func (h *invoiceHandler) createInvoice(kind domain.InvoiceKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("invoice_kind", string(kind)))
		var req dto.CreateInvoiceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Failed to bind JSON for CreateInvoice", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
			return
		}

		creatorUserID, ok := actorFromContext(c, logger)
		if !ok {
			return
		}

		invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), kind, req, creatorUserID)
		if err != nil {
			respondWithError(c, logger, err, "Failed to create invoice")
			return
		}
		c.JSON(http.StatusCreated, dto.ToInvoiceResponse(invoice))
	}
}

// getInvoice godoc
// @Summary Get an invoice with its items
// @Tags invoices
// @Produce  json
// @Param   invoiceID path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 404 {object} map[string]string "Invoice not found"
// @Security BearerAuth
// @Router /invoices/{invoiceID} [get]
func (h *invoiceHandler) getInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("invoiceID")

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), invoiceID)
	if err != nil {
		respondWithError(c, logger.With(slog.String("invoice_id", invoiceID)), err, "Failed to retrieve invoice")
		return
	}
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

// listInvoices godoc
// @Summary List invoices
// @Tags invoices
// @Produce  json
// @Param   kind query string false "sales or purchase"
// @Param   limit query int false "Page size (1-100, default 20)"
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListInvoicesResponse
// @Security BearerAuth
// @Router /invoices [get]
func (h *invoiceHandler) listInvoices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListInvoicesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.invoiceService.ListInvoices(c.Request.Context(), params)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list invoices")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// postInvoice godoc
// @Summary Post an invoice
// @Description Posts the invoice's journal entry.
// @Tags invoices
// @Produce  json
// @Param   invoiceID path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 409 {object} map[string]string "Already posted or cancelled"
// @Security BearerAuth
// @Router /invoices/{invoiceID}/post [put]
func (h *invoiceHandler) postInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("invoiceID")

	actor, ok := actorFromContext(c, logger)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.PostInvoice(c.Request.Context(), invoiceID, actor)
	if err != nil {
		respondWithError(c, logger.With(slog.String("invoice_id", invoiceID)), err, "Failed to post invoice")
		return
	}
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}
