package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/SscSPs/ledger_backend/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_backend/internal/core/ports/services"
	"github.com/SscSPs/ledger_backend/internal/dto"
	"github.com/SscSPs/ledger_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// journalHandler handles journal entry creation, retrieval and state changes.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
	postingService portssvc.PostingSvcFacade
}

func registerJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade, postingService portssvc.PostingSvcFacade) {
	h := &journalHandler{journalService: journalService, postingService: postingService}

	entries := rg.Group("/journal-entries")
	{
		entries.POST("", h.createEntry)
		entries.GET("", h.listEntries)
		entries.GET("/:entryID", h.getEntry)
		entries.PUT("/:entryID/post", h.postEntry)
		entries.PUT("/:entryID/cancel", h.cancelEntry)
	}
}

// createEntry godoc
// @Summary Create a draft journal entry
// @Description Lines must balance within 0.01. The entry is assigned the next entry number.
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   entry body dto.CreateJournalEntryRequest true "Entry with lines"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} map[string]string "Empty, unbalanced or malformed entry"
// @Security BearerAuth
// @Router /journal-entries [post]
func (h *journalHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}

	entry, err := h.journalService.CreateEntry(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create journal entry")
		return
	}

	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

// getEntry godoc
// @Summary Get a journal entry with its lines
// @Tags journal-entries
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 404 {object} map[string]string "Entry not found"
// @Security BearerAuth
// @Router /journal-entries/{entryID} [get]
func (h *journalHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")

	entry, err := h.journalService.GetEntryWithLines(c.Request.Context(), entryID)
	if err != nil {
		respondWithError(c, logger.With(slog.String("entry_id", entryID)), err, "Failed to retrieve journal entry")
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// listEntries godoc
// @Summary List journal entries
// @Description Newest entry date first; use nextToken to fetch the following page.
// @Tags journal-entries
// @Produce  json
// @Param   status query string false "draft, posted or cancelled"
// @Param   limit query int false "Page size (1-100, default 20)"
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListJournalEntriesResponse
// @Security BearerAuth
// @Router /journal-entries [get]
func (h *journalHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListJournalEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.journalService.ListEntries(c.Request.Context(), params)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list journal entries")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// postEntry godoc
// @Summary Post a draft journal entry
// @Description Applies the entry's lines to account balances atomically.
// @Tags journal-entries
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 400 {object} map[string]string "A line references a missing account"
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 409 {object} map[string]string "Entry already posted or cancelled"
// @Security BearerAuth
// @Router /journal-entries/{entryID}/post [put]
func (h *journalHandler) postEntry(c *gin.Context) {
	h.transition(c, h.postingService.PostEntry, "Failed to post journal entry")
}

// cancelEntry godoc
// @Summary Cancel a journal entry
// @Description Cancels a draft, or reverses a posted entry's balance effects.
// @Tags journal-entries
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 409 {object} map[string]string "Entry already cancelled"
// @Security BearerAuth
// @Router /journal-entries/{entryID}/cancel [put]
func (h *journalHandler) cancelEntry(c *gin.Context) {
	h.transition(c, h.postingService.CancelEntry, "Failed to cancel journal entry")
}

func (h *journalHandler) transition(c *gin.Context, op func(ctx context.Context, entryID, actor string) (*domain.JournalEntry, error), fallback string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")

	actor, ok := actorFromContext(c, logger)
	if !ok {
		return
	}

	entry, err := op(c.Request.Context(), entryID, actor)
	if err != nil {
		respondWithError(c, logger.With(slog.String("entry_id", entryID)), err, fallback)
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}
