package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/kontoflow/kontoflow_backend/internal/core/ports/services"
	"github.com/kontoflow/kontoflow_backend/internal/dto"
	"github.com/kontoflow/kontoflow_backend/internal/middleware"
)

// draftHandler handles HTTP requests related to statement drafts, including
// validation and booking.
type draftHandler struct {
	draftService      portssvc.DraftSvcFacade
	validationService portssvc.ValidationSvcFacade
	bookingService    portssvc.BookingSvcFacade
}

func newDraftHandler(ds portssvc.DraftSvcFacade, vs portssvc.ValidationSvcFacade, bs portssvc.BookingSvcFacade) *draftHandler {
	return &draftHandler{
		draftService:      ds,
		validationService: vs,
		bookingService:    bs,
	}
}

// registerDraftRoutes registers routes related to drafts.
func registerDraftRoutes(rg *gin.RouterGroup, ds portssvc.DraftSvcFacade, vs portssvc.ValidationSvcFacade, bs portssvc.BookingSvcFacade) {
	h := newDraftHandler(ds, vs, bs)

	drafts := rg.Group("/drafts")
	{
		drafts.POST("", h.createDraft)
		drafts.POST("/import", h.importMovements)
		drafts.GET("", h.listDrafts)
		drafts.GET("/:draftID", h.getDraft)
		drafts.DELETE("/:draftID", h.deleteDraft)
		drafts.POST("/:draftID/entries", h.addEntry)
		drafts.PATCH("/:draftID/entries/:entryID", h.updateEntry)
		drafts.PUT("/:draftID/entries/:entryID/split-draft", h.assignSplitDraft)
		drafts.POST("/:draftID/validate", h.validateDraft)
		drafts.POST("/:draftID/book", h.bookDraft)
	}
}

// createDraft godoc
// @Summary Create an empty draft
// @Description Creates an empty draft for manual entry
// @Tags drafts
// @Accept json
// @Produce json
// @Param draft body dto.CreateDraftRequest true "Draft details"
// @Success 201 {object} dto.DraftResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /drafts [post]
func (h *draftHandler) createDraft(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := userIDOrAbort(c, logger)
	if !ok {
		return
	}

	var req dto.CreateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateDraft", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	draft, err := h.draftService.CreateDraft(c.Request.Context(), ownerID, req)
	if err != nil {
		respondError(c, logger, err, "Failed to create draft")
		return
	}

	logger.Info("Draft created", slog.String("draft_id", draft.DraftID))
	c.JSON(http.StatusCreated, dto.ToDraftResponse(draft))
}

// importMovements godoc
// @Summary Import parsed statement movements
// @Description Runs the batch splitter over a parsed movement list and creates drafts
// @Tags drafts
// @Accept json
// @Produce json
// @Param import body dto.ImportMovementsRequest true "Parsed movements"
// @Success 201 {object} dto.ImportResult
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /drafts/import [post]
func (h *draftHandler) importMovements(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := userIDOrAbort(c, logger)
	if !ok {
		return
	}

	var req dto.ImportMovementsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ImportMovements", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	logger.Info("Received movement import",
		slog.String("file_name", req.FileName),
		slog.Int("movement_count", len(req.Movements)))

	result, err := h.draftService.ImportMovements(c.Request.Context(), ownerID, req)
	if err != nil {
		respondError(c, logger, err, "Failed to import movements")
		return
	}

	logger.Info("Movements imported", slog.Int("draft_count", len(result.DraftIDs)))
	c.JSON(http.StatusCreated, result)
}

// listDrafts godoc
// @Summary List drafts
// @Description Retrieves a paginated list of the owner's drafts, newest first
// @Tags drafts
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Token of the next page"
// @Success 200 {object} dto.ListDraftsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /drafts [get]
func (h *draftHandler) listDrafts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := userIDOrAbort(c, logger)
	if !ok {
		return
	}

	var params dto.ListDraftsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListDrafts", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.draftService.ListDrafts(c.Request.Context(), ownerID, params)
	if err != nil {
		respondError(c, logger, err, "Failed to list drafts")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getDraft godoc
// @Summary Get a draft by ID
// @Description Retrieves a draft including its entries
// @Tags drafts
// @Produce json
// @Param draftID path string true "Draft ID"
// @Success 200 {object} dto.DraftResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /drafts/{draftID} [get]
func (h *draftHandler) getDraft(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := userIDOrAbort(c, logger)
	if !ok {
		return
	}
	draftID := c.Param("draftID")

	draft, err := h.draftService.GetDraft(c.Request.Context(), ownerID, draftID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve draft")
		return
	}

	c.JSON(http.StatusOK, dto.ToDraftResponse(draft))
}

// deleteDraft godoc
// @Summary Delete a draft
// @Description Removes an unbooked draft and all its entries
// @Tags drafts
// @Produce json
// @Param draftID path string true "Draft ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Draft committed or referenced as a split draft"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /drafts/{draftID} [delete]
func (h *draftHandler) deleteDraft(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := userIDOrAbort(c, logger)
	if !ok {
		return
	}
	draftID := c.Param("draftID")

	if err := h.draftService.DeleteDraft(c.Request.Context(), ownerID, draftID); err != nil {
		respondError(c, logger, err, "Failed to delete draft")
		return
	}

	logger.Info("Draft deleted", slog.String("draft_id", draftID))
	c.Status(http.StatusNoContent)
}

// addEntry godoc
// @Summary Add an entry to a draft
// @Description Appends one entry to an open draft
// @Tags drafts
// @Accept json
// @Produce json
// @Param draftID path string true "Draft ID"
// @Param entry body dto.AddEntryRequest true "Entry details"
// @Success 201 {object} dto.EntryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Draft already committed"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /drafts/{draftID}/entries [post]
func (h *draftHandler) addEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := userIDOrAbort(c, logger)
	if !ok {
		return
	}
	draftID := c.Param("draftID")

	var req dto.AddEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	entry, err := h.draftService.AddEntry(c.Request.Context(), ownerID, draftID, req)
	if err != nil {
		respondError(c, logger, err, "Failed to add entry")
		return
	}

	resp := dto.ToEntryResponse(entry)
	c.JSON(http.StatusCreated, resp)
}

// updateEntry godoc
// @Summary Update a draft entry
// @Description Applies a partial update to an entry; absent fields stay untouched
// @Tags drafts
// @Accept json
// @Produce json
// @Param draftID path string true "Draft ID"
// @Param entryID path string true "Entry ID"
// @Param entry body dto.UpdateEntryRequest true "Fields to update"
// @Success 200 {object} dto.EntryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /drafts/{draftID}/entries/{entryID} [patch]
func (h *draftHandler) updateEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := userIDOrAbort(c, logger)
	if !ok {
		return
	}
	draftID := c.Param("draftID")
	entryID := c.Param("entryID")

	var req dto.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	entry, err := h.draftService.UpdateEntry(c.Request.Context(), ownerID, draftID, entryID, req.ToEntryPatch())
	if err != nil {
		respondError(c, logger, err, "Failed to update entry")
		return
	}

	resp := dto.ToEntryResponse(entry)
	c.JSON(http.StatusOK, resp)
}

// assignSplitDraft godoc
// @Summary Assign a split draft to an entry
// @Description Links a separate draft as the itemization of an intermediary entry
// @Tags drafts
// @Accept json
// @Produce json
// @Param draftID path string true "Draft ID"
// @Param entryID path string true "Entry ID"
// @Param assignment body dto.AssignSplitDraftRequest true "Split draft to link"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Assignment violates a structural rule"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /drafts/{draftID}/entries/{entryID}/split-draft [put]
func (h *draftHandler) assignSplitDraft(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := userIDOrAbort(c, logger)
	if !ok {
		return
	}
	draftID := c.Param("draftID")
	entryID := c.Param("entryID")

	var req dto.AssignSplitDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AssignSplitDraft", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	if err := h.draftService.AssignSplitDraft(c.Request.Context(), ownerID, draftID, entryID, req.SplitDraftID); err != nil {
		respondError(c, logger, err, "Failed to assign split draft")
		return
	}

	logger.Info("Split draft assigned",
		slog.String("entry_id", entryID),
		slog.String("split_draft_id", req.SplitDraftID))
	c.Status(http.StatusNoContent)
}

// validateDraft godoc
// @Summary Validate a draft
// @Description Runs all validation checks over the draft, or over one entry when entryID is given
// @Tags drafts
// @Produce json
// @Param draftID path string true "Draft ID"
// @Param entryID query string false "Restrict validation to one entry"
// @Success 200 {object} dto.ValidationResult
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /drafts/{draftID}/validate [post]
func (h *draftHandler) validateDraft(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := userIDOrAbort(c, logger)
	if !ok {
		return
	}
	draftID := c.Param("draftID")

	var entryID *string
	if v := c.Query("entryID"); v != "" {
		entryID = &v
	}

	result, err := h.validationService.Validate(c.Request.Context(), draftID, entryID, ownerID)
	if err != nil {
		respondError(c, logger, err, "Failed to validate draft")
		return
	}

	c.JSON(http.StatusOK, result)
}

// bookDraft godoc
// @Summary Book a draft
// @Description Converts the draft's entries into postings; a single entry when entryID is set. Validation errors abort; warnings abort unless forceWarnings is set.
// @Tags drafts
// @Accept json
// @Produce json
// @Param draftID path string true "Draft ID"
// @Param booking body dto.BookRequest true "Booking options"
// @Success 200 {object} dto.BookingResult
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} dto.BookingResult "Validation blocked the booking"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /drafts/{draftID}/book [post]
func (h *draftHandler) bookDraft(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := userIDOrAbort(c, logger)
	if !ok {
		return
	}
	draftID := c.Param("draftID")

	var req dto.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Book", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	result, err := h.bookingService.Book(c.Request.Context(), draftID, req.EntryID, ownerID, req.ForceWarnings)
	if err != nil {
		respondError(c, logger, err, "Failed to book draft")
		return
	}

	if !result.Booked {
		// Diagnostics blocked the booking; the result says why.
		c.JSON(http.StatusUnprocessableEntity, result)
		return
	}

	logger.Info("Draft booked",
		slog.String("draft_id", draftID),
		slog.Int("postings_created", result.PostingsCreated))
	c.JSON(http.StatusOK, result)
}
