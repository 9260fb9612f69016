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

// voucherHandler exposes payment and receipt vouchers.
type voucherHandler struct {
	voucherService portssvc.VoucherSvcFacade
}

func registerVoucherRoutes(rg *gin.RouterGroup, voucherService portssvc.VoucherSvcFacade) {
	h := &voucherHandler{voucherService: voucherService}

	vouchers := rg.Group("/vouchers")
	{
		vouchers.POST("/payments", h.createVoucher(domain.PaymentVoucher))
		vouchers.POST("/receipts", h.createVoucher(domain.ReceiptVoucher))
		vouchers.GET("/:voucherID", h.getVoucher)
		vouchers.PUT("/:voucherID/post", h.postVoucher)
	}
}

// createVoucher godoc
// @Summary Create a payment or receipt voucher
// @Description Creates the voucher together with its draft two-line journal entry.
// @Tags vouchers
// @Accept  json
// @Produce  json
// @Param   voucher body dto.CreateVoucherRequest true "Voucher details"
// @Success 201 {object} dto.VoucherResponse
// @Failure 400 {object} map[string]string "Invalid input or unknown account"
// @Security BearerAuth
// @Router /vouchers/payments [post]
// @Router /vouchers/receipts [post]
func (h *voucherHandler) createVoucher(kind domain.VoucherKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("voucher_kind", string(kind)))
		var req dto.CreateVoucherRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Failed to bind JSON for CreateVoucher", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
			return
		}

		creatorUserID, ok := actorFromContext(c, logger)
		if !ok {
			return
		}

		voucher, err := h.voucherService.CreateVoucher(c.Request.Context(), kind, req, creatorUserID)
		if err != nil {
			respondWithError(c, logger, err, "Failed to create voucher")
			return
		}
		c.JSON(http.StatusCreated, dto.ToVoucherResponse(voucher))
	}
}

// getVoucher godoc
// @Summary Get a voucher
// @Tags vouchers
// @Produce  json
// @Param   voucherID path string true "Voucher ID"
// @Success 200 {object} dto.VoucherResponse
// @Failure 404 {object} map[string]string "Voucher not found"
// @Security BearerAuth
// @Router /vouchers/{voucherID} [get]
func (h *voucherHandler) getVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	voucherID := c.Param("voucherID")

	voucher, err := h.voucherService.GetVoucher(c.Request.Context(), voucherID)
	if err != nil {
		respondWithError(c, logger.With(slog.String("voucher_id", voucherID)), err, "Failed to retrieve voucher")
		return
	}
	c.JSON(http.StatusOK, dto.ToVoucherResponse(voucher))
}

// postVoucher godoc
// @Summary Post a voucher
// @Description Posts the voucher's journal entry and marks the voucher posted.
// @Tags vouchers
// @Produce  json
// @Param   voucherID path string true "Voucher ID"
// @Success 200 {object} dto.VoucherResponse
// @Failure 404 {object} map[string]string "Voucher not found"
// @Failure 409 {object} map[string]string "Already posted"
// @Security BearerAuth
// @Router /vouchers/{voucherID}/post [put]
func (h *voucherHandler) postVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	voucherID := c.Param("voucherID")

	actor, ok := actorFromContext(c, logger)
	if !ok {
		return
	}

	voucher, err := h.voucherService.PostVoucher(c.Request.Context(), voucherID, actor)
	if err != nil {
		respondWithError(c, logger.With(slog.String("voucher_id", voucherID)), err, "Failed to post voucher")
		return
	}
	c.JSON(http.StatusOK, dto.ToVoucherResponse(voucher))
}
