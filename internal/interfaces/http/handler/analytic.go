package handler

import (
	"github.com/gin-gonic/gin"

	budgetapp "github.com/budgeterp/backend/internal/application/budget"
)

// AnalyticHandler handles budget analytic API endpoints
type AnalyticHandler struct {
	BaseHandler
	analyticService *budgetapp.AnalyticService
}

// NewAnalyticHandler creates a new AnalyticHandler
func NewAnalyticHandler(analyticService *budgetapp.AnalyticService) *AnalyticHandler {
	return &AnalyticHandler{analyticService: analyticService}
}

// Create godoc
// @ID           createBudgetAnalytic
// @Summary      Create a budget analytic
// @Tags         budget-analytics
// @Accept       json
// @Produce      json
// @Param        request body budgetapp.CreateAnalyticRequest true "Analytic creation request"
// @Success      201 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Router       /analytics [post]
func (h *AnalyticHandler) Create(c *gin.Context) {
	var req budgetapp.CreateAnalyticRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	analytic, err := h.analyticService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, analytic)
}

// GetByID godoc
// @ID           getBudgetAnalyticById
// @Summary      Get budget analytic by ID
// @Tags         budget-analytics
// @Produce      json
// @Param        id path string true "Analytic ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Router       /analytics/{id} [get]
func (h *AnalyticHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid analytic ID format")
		return
	}

	analytic, err := h.analyticService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, analytic)
}

// List godoc
// @ID           listBudgetAnalytics
// @Summary      List budget analytics
// @Tags         budget-analytics
// @Produce      json
// @Param        search query string false "Search term (name, description)"
// @Param        status query string false "Analytic status" Enums(new, confirmed, archived)
// @Param        type query string false "Analytic type" Enums(income, expense)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response
// @Router       /analytics [get]
func (h *AnalyticHandler) List(c *gin.Context) {
	filter, err := bindListFilter(c, "status", "type")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	analytics, total, err := h.analyticService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, analytics, total, filter.Page, filter.PageSize)
}

// Update godoc
// @ID           updateBudgetAnalytic
// @Summary      Update a budget analytic
// @Tags         budget-analytics
// @Accept       json
// @Produce      json
// @Param        id path string true "Analytic ID" format(uuid)
// @Param        request body budgetapp.UpdateAnalyticRequest true "Analytic update request"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /analytics/{id} [put]
func (h *AnalyticHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid analytic ID format")
		return
	}

	var req budgetapp.UpdateAnalyticRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	analytic, err := h.analyticService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, analytic)
}

// Confirm godoc
// @ID           confirmBudgetAnalytic
// @Summary      Confirm a budget analytic
// @Description  Transition an analytic from DRAFT to CONFIRMED so it becomes assignable
// @Tags         budget-analytics
// @Produce      json
// @Param        id path string true "Analytic ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /analytics/{id}/confirm [post]
func (h *AnalyticHandler) Confirm(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid analytic ID format")
		return
	}

	analytic, err := h.analyticService.Confirm(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, analytic)
}

// Archive godoc
// @ID           archiveBudgetAnalytic
// @Summary      Archive a budget analytic
// @Description  Archived analytics stop being assignable but existing references are kept
// @Tags         budget-analytics
// @Produce      json
// @Param        id path string true "Analytic ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /analytics/{id} [delete]
func (h *AnalyticHandler) Archive(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid analytic ID format")
		return
	}

	analytic, err := h.analyticService.Archive(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, analytic)
}

// Unarchive godoc
// @ID           unarchiveBudgetAnalytic
// @Summary      Restore an archived budget analytic
// @Tags         budget-analytics
// @Produce      json
// @Param        id path string true "Analytic ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /analytics/{id}/unarchive [post]
func (h *AnalyticHandler) Unarchive(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid analytic ID format")
		return
	}

	analytic, err := h.analyticService.Unarchive(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, analytic)
}

// DeletePermanently godoc
// @ID           deleteBudgetAnalyticPermanently
// @Summary      Permanently delete a budget analytic
// @Description  Only archived analytics can be deleted permanently
// @Tags         budget-analytics
// @Produce      json
// @Param        id path string true "Analytic ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /analytics/{id}/permanent [delete]
func (h *AnalyticHandler) DeletePermanently(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid analytic ID format")
		return
	}

	if err := h.analyticService.DeletePermanently(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
