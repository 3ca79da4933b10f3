package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/kontoflow/kontoflow_backend/internal/core/ports/services"
	"github.com/kontoflow/kontoflow_backend/internal/dto"
	"github.com/kontoflow/kontoflow_backend/internal/middleware"
)

// securityHandler handles HTTP requests related to securities.
type securityHandler struct {
	securityService portssvc.SecuritySvcFacade
}

func newSecurityHandler(ss portssvc.SecuritySvcFacade) *securityHandler {
	return &securityHandler{securityService: ss}
}

// registerSecurityRoutes registers routes related to securities.
func registerSecurityRoutes(rg *gin.RouterGroup, securityService portssvc.SecuritySvcFacade) {
	h := newSecurityHandler(securityService)

	securities := rg.Group("/securities")
	{
		securities.POST("", h.createSecurity)
		securities.GET("", h.listSecurities)
		securities.GET("/:securityID", h.getSecurity)
	}
}

// createSecurity godoc
// @Summary Create a new security
// @Description Registers a tradable security identified by its ISIN
// @Tags securities
// @Accept json
// @Produce json
// @Param security body dto.CreateSecurityRequest true "Security details"
// @Success 201 {object} dto.SecurityResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "ISIN already registered"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /securities [post]
func (h *securityHandler) createSecurity(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := userIDOrAbort(c, logger)
	if !ok {
		return
	}

	var req dto.CreateSecurityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateSecurity", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	security, err := h.securityService.CreateSecurity(c.Request.Context(), ownerID, req)
	if err != nil {
		respondError(c, logger, err, "Failed to create security")
		return
	}

	logger.Info("Security created", slog.String("security_id", security.SecurityID))
	c.JSON(http.StatusCreated, dto.ToSecurityResponse(security))
}

// listSecurities godoc
// @Summary List securities
// @Description Retrieves the securities of the logged-in user
// @Tags securities
// @Produce json
// @Success 200 {array} dto.SecurityResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /securities [get]
func (h *securityHandler) listSecurities(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := userIDOrAbort(c, logger)
	if !ok {
		return
	}

	securities, err := h.securityService.ListSecurities(c.Request.Context(), ownerID)
	if err != nil {
		respondError(c, logger, err, "Failed to list securities")
		return
	}

	resp := make([]dto.SecurityResponse, len(securities))
	for i := range securities {
		resp[i] = dto.ToSecurityResponse(&securities[i])
	}
	c.JSON(http.StatusOK, resp)
}

// getSecurity godoc
// @Summary Get a security by ID
// @Description Retrieves details of a specific security
// @Tags securities
// @Produce json
// @Param securityID path string true "Security ID"
// @Success 200 {object} dto.SecurityResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /securities/{securityID} [get]
func (h *securityHandler) getSecurity(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := userIDOrAbort(c, logger)
	if !ok {
		return
	}
	securityID := c.Param("securityID")

	security, err := h.securityService.GetSecurityByID(c.Request.Context(), ownerID, securityID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve security")
		return
	}

	c.JSON(http.StatusOK, dto.ToSecurityResponse(security))
}
