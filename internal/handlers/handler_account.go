package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/ledger_backend/internal/core/ports/services"
	"github.com/SscSPs/ledger_backend/internal/dto"
	"github.com/SscSPs/ledger_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests for the chart of accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
}

func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade) {
	h := &accountHandler{accountService: accountService}

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:accountID", h.getAccount)
		accounts.DELETE("/:accountID", h.deactivateAccount)
	}
}

// createAccount godoc
// @Summary Create a new account
// @Description Adds an account to the chart of accounts. Its current balance starts at the opening balance.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input or unknown parent"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Account code already exists"
// @Failure 500 {object} map[string]string "Failed to create account"
// @Security BearerAuth
// @Router /accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create account")
		return
	}

	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// getAccount godoc
// @Summary Get an account by ID
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /accounts/{accountID} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	account, err := h.accountService.GetAccountByID(c.Request.Context(), accountID)
	if err != nil {
		respondWithError(c, logger.With(slog.String("account_id", accountID)), err, "Failed to retrieve account")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// listAccounts godoc
// @Summary List accounts
// @Description Lists accounts ordered by account code.
// @Tags accounts
// @Produce  json
// @Param   activeOnly query bool false "Only active accounts"
// @Success 200 {object} dto.ListAccountsResponse
// @Security BearerAuth
// @Router /accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), params.ActiveOnly)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list accounts")
		return
	}

	c.JSON(http.StatusOK, dto.ToListAccountResponse(accounts))
}

// deactivateAccount godoc
// @Summary Deactivate an account
// @Description Accounts are never deleted; this marks one inactive.
// @Tags accounts
// @Param   accountID path string true "Account ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 409 {object} map[string]string "Account already inactive"
// @Security BearerAuth
// @Router /accounts/{accountID} [delete]
func (h *accountHandler) deactivateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	userID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}

	if err := h.accountService.DeactivateAccount(c.Request.Context(), accountID, userID); err != nil {
		respondWithError(c, logger.With(slog.String("account_id", accountID)), err, "Failed to deactivate account")
		return
	}

	c.Status(http.StatusNoContent)
}
