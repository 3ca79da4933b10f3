package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	portssvc "github.com/kontoflow/kontoflow_backend/internal/core/ports/services"
	"github.com/kontoflow/kontoflow_backend/internal/dto"
	"github.com/kontoflow/kontoflow_backend/internal/middleware"
)

// savingsPlanHandler handles HTTP requests related to savings plans.
type savingsPlanHandler struct {
	planService portssvc.SavingsPlanSvcFacade
}

func newSavingsPlanHandler(ps portssvc.SavingsPlanSvcFacade) *savingsPlanHandler {
	return &savingsPlanHandler{planService: ps}
}

// registerSavingsPlanRoutes registers routes related to savings plans.
func registerSavingsPlanRoutes(rg *gin.RouterGroup, planService portssvc.SavingsPlanSvcFacade) {
	h := newSavingsPlanHandler(planService)

	plans := rg.Group("/savings-plans")
	{
		plans.POST("", h.createPlan)
		plans.GET("", h.listPlans)
		plans.GET("/:planID", h.getPlan)
		plans.POST("/:planID/archive", h.archivePlan)
	}
}

// createPlan godoc
// @Summary Create a new savings plan
// @Description Creates a one-time or recurring savings plan
// @Tags savings-plans
// @Accept json
// @Produce json
// @Param plan body dto.CreateSavingsPlanRequest true "Plan details"
// @Success 201 {object} dto.SavingsPlanResponse
// @Failure 400 {object} ErrorResponse "Recurring plan without an interval"
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /savings-plans [post]
func (h *savingsPlanHandler) createPlan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := userIDOrAbort(c, logger)
	if !ok {
		return
	}

	var req dto.CreateSavingsPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreatePlan", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	plan, err := h.planService.CreatePlan(c.Request.Context(), ownerID, req)
	if err != nil {
		respondError(c, logger, err, "Failed to create savings plan")
		return
	}

	logger.Info("Savings plan created", slog.String("plan_id", plan.PlanID))
	c.JSON(http.StatusCreated, dto.ToSavingsPlanResponse(plan))
}

// listPlans godoc
// @Summary List savings plans
// @Description Retrieves the savings plans of the logged-in user
// @Tags savings-plans
// @Produce json
// @Param activeOnly query bool false "Exclude archived plans" default(false)
// @Success 200 {array} dto.SavingsPlanResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /savings-plans [get]
func (h *savingsPlanHandler) listPlans(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := userIDOrAbort(c, logger)
	if !ok {
		return
	}
	activeOnly, _ := strconv.ParseBool(c.DefaultQuery("activeOnly", "false"))

	plans, err := h.planService.ListPlans(c.Request.Context(), ownerID, activeOnly)
	if err != nil {
		respondError(c, logger, err, "Failed to list savings plans")
		return
	}

	resp := make([]dto.SavingsPlanResponse, len(plans))
	for i := range plans {
		resp[i] = dto.ToSavingsPlanResponse(&plans[i])
	}
	c.JSON(http.StatusOK, resp)
}

// getPlan godoc
// @Summary Get a savings plan by ID
// @Description Retrieves details of a specific savings plan
// @Tags savings-plans
// @Produce json
// @Param planID path string true "Plan ID"
// @Success 200 {object} dto.SavingsPlanResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /savings-plans/{planID} [get]
func (h *savingsPlanHandler) getPlan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := userIDOrAbort(c, logger)
	if !ok {
		return
	}
	planID := c.Param("planID")

	plan, err := h.planService.GetPlanByID(c.Request.Context(), ownerID, planID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve savings plan")
		return
	}

	c.JSON(http.StatusOK, dto.ToSavingsPlanResponse(plan))
}

// archivePlan godoc
// @Summary Archive a savings plan
// @Description Archives a plan so it no longer appears among assignable plans
// @Tags savings-plans
// @Produce json
// @Param planID path string true "Plan ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Plan already archived"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /savings-plans/{planID}/archive [post]
func (h *savingsPlanHandler) archivePlan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID, ok := userIDOrAbort(c, logger)
	if !ok {
		return
	}
	planID := c.Param("planID")

	if err := h.planService.ArchivePlan(c.Request.Context(), ownerID, planID); err != nil {
		respondError(c, logger, err, "Failed to archive savings plan")
		return
	}

	logger.Info("Savings plan archived", slog.String("plan_id", planID))
	c.Status(http.StatusNoContent)
}
