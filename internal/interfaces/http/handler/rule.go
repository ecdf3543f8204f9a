package handler

import (
	"github.com/gin-gonic/gin"

	budgetapp "github.com/budgeterp/backend/internal/application/budget"
)

// RuleHandler handles auto-assign rule API endpoints
type RuleHandler struct {
	BaseHandler
	ruleService *budgetapp.RuleService
}

// NewRuleHandler creates a new RuleHandler
func NewRuleHandler(ruleService *budgetapp.RuleService) *RuleHandler {
	return &RuleHandler{ruleService: ruleService}
}

// Create godoc
// @ID           createAutoAssignRule
// @Summary      Create an auto-assign rule
// @Description  A rule with no criteria is stored but never matches
// @Tags         auto-assign-rules
// @Accept       json
// @Produce      json
// @Param        request body budgetapp.CreateRuleRequest true "Rule creation request"
// @Success      201 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /auto-assign-rules [post]
func (h *RuleHandler) Create(c *gin.Context) {
	var req budgetapp.CreateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	rule, err := h.ruleService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, rule)
}

// GetByID godoc
// @ID           getAutoAssignRuleById
// @Summary      Get auto-assign rule by ID
// @Tags         auto-assign-rules
// @Produce      json
// @Param        id path string true "Rule ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Router       /auto-assign-rules/{id} [get]
func (h *RuleHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid rule ID format")
		return
	}

	rule, err := h.ruleService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, rule)
}

// List godoc
// @ID           listAutoAssignRules
// @Summary      List auto-assign rules
// @Tags         auto-assign-rules
// @Produce      json
// @Param        active query bool false "Filter on active flag"
// @Param        target_analytic_id query string false "Target analytic ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response
// @Router       /auto-assign-rules [get]
func (h *RuleHandler) List(c *gin.Context) {
	filter, err := bindListFilter(c, "active", "target_analytic_id")
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	rules, total, err := h.ruleService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, rules, total, filter.Page, filter.PageSize)
}

// Update godoc
// @ID           updateAutoAssignRule
// @Summary      Update an auto-assign rule
// @Tags         auto-assign-rules
// @Accept       json
// @Produce      json
// @Param        id path string true "Rule ID" format(uuid)
// @Param        request body budgetapp.UpdateRuleRequest true "Rule update request"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /auto-assign-rules/{id} [put]
func (h *RuleHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid rule ID format")
		return
	}

	var req budgetapp.UpdateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	rule, err := h.ruleService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, rule)
}

// Delete godoc
// @ID           deleteAutoAssignRule
// @Summary      Delete an auto-assign rule
// @Tags         auto-assign-rules
// @Produce      json
// @Param        id path string true "Rule ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response
// @Router       /auto-assign-rules/{id} [delete]
func (h *RuleHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid rule ID format")
		return
	}

	if err := h.ruleService.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
