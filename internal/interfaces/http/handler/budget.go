package handler

import (
	"github.com/gin-gonic/gin"

	budgetapp "github.com/budgeterp/backend/internal/application/budget"
)

// BudgetHandler handles budget period API endpoints
type BudgetHandler struct {
	BaseHandler
	budgetService *budgetapp.BudgetService
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(budgetService *budgetapp.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// Create godoc
// @ID           createBudget
// @Summary      Create a budget period
// @Tags         budgets
// @Accept       json
// @Produce      json
// @Param        request body budgetapp.CreateBudgetRequest true "Budget creation request"
// @Success      201 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /budgets [post]
func (h *BudgetHandler) Create(c *gin.Context) {
	var req budgetapp.CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	period, err := h.budgetService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, period)
}

// GetByID godoc
// @ID           getBudgetById
// @Summary      Get budget period by ID
// @Tags         budgets
// @Produce      json
// @Param        id path string true "Budget ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Router       /budgets/{id} [get]
func (h *BudgetHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid budget ID format")
		return
	}

	period, err := h.budgetService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, period)
}

// List godoc
// @ID           listBudgets
// @Summary      List budget periods
// @Tags         budgets
// @Produce      json
// @Param        search query string false "Search term (name)"
// @Param        status query string false "Budget status" Enums(draft, confirmed, revised, cancelled)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response
// @Router       /budgets [get]
func (h *BudgetHandler) List(c *gin.Context) {
	filter, err := bindListFilter(c, "status")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	periods, total, err := h.budgetService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, periods, total, filter.Page, filter.PageSize)
}

// Update godoc
// @ID           updateBudget
// @Summary      Update a budget period
// @Description  Only draft budgets can be edited; lines replace the existing set
// @Tags         budgets
// @Accept       json
// @Produce      json
// @Param        id path string true "Budget ID" format(uuid)
// @Param        request body budgetapp.UpdateBudgetRequest true "Budget update request"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /budgets/{id} [put]
func (h *BudgetHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid budget ID format")
		return
	}

	var req budgetapp.UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	period, err := h.budgetService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, period)
}

// UpdateBudgetStatusRequest requests a status transition on a budget period
type UpdateBudgetStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=confirmed cancelled"`
}

// UpdateStatus godoc
// @ID           updateBudgetStatus
// @Summary      Transition a budget period's status
// @Description  Confirmed budgets start accumulating achievement from document confirmations
// @Tags         budgets
// @Accept       json
// @Produce      json
// @Param        id path string true "Budget ID" format(uuid)
// @Param        request body UpdateBudgetStatusRequest true "Target status"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /budgets/{id}/status [patch]
func (h *BudgetHandler) UpdateStatus(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid budget ID format")
		return
	}

	var req UpdateBudgetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var period *budgetapp.BudgetResponse
	switch req.Status {
	case "confirmed":
		period, err = h.budgetService.Confirm(c.Request.Context(), id)
	case "cancelled":
		period, err = h.budgetService.Cancel(c.Request.Context(), id)
	}
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, period)
}

// Revise godoc
// @ID           reviseBudget
// @Summary      Revise a confirmed budget period
// @Description  Creates a draft copy linked to the original; the original is marked revised
// @Tags         budgets
// @Produce      json
// @Param        id path string true "Budget ID" format(uuid)
// @Success      201 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /budgets/{id}/revise [post]
func (h *BudgetHandler) Revise(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid budget ID format")
		return
	}

	revision, err := h.budgetService.Revise(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, revision)
}

// AnalyticDetails godoc
// @ID           getBudgetAnalyticDetails
// @Summary      Get one analytic line of a budget period
// @Description  Returns the budgeted and achieved figures for a single analytic in the period
// @Tags         budgets
// @Produce      json
// @Param        id path string true "Budget ID" format(uuid)
// @Param        analytic_id path string true "Analytic ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Router       /budgets/{id}/analytic/{analytic_id}/details [get]
func (h *BudgetHandler) AnalyticDetails(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid budget ID format")
		return
	}

	analyticID, err := parseIDParam(c, "analytic_id")
	if err != nil {
		h.BadRequest(c, "Invalid analytic ID format")
		return
	}

	line, err := h.budgetService.AnalyticDetails(c.Request.Context(), id, analyticID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, line)
}

// Delete godoc
// @ID           deleteBudget
// @Summary      Delete a budget period
// @Description  Only draft budgets can be deleted
// @Tags         budgets
// @Produce      json
// @Param        id path string true "Budget ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /budgets/{id} [delete]
func (h *BudgetHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid budget ID format")
		return
	}

	if err := h.budgetService.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
