package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/budgeterp/backend/internal/application/recommend"
)

// RecommendHandler handles analytic recommendation API endpoints
type RecommendHandler struct {
	BaseHandler
	recommendService *recommend.Service
}

// NewRecommendHandler creates a new RecommendHandler
func NewRecommendHandler(recommendService *recommend.Service) *RecommendHandler {
	return &RecommendHandler{recommendService: recommendService}
}

// Recommend godoc
// @ID           recommendAnalytic
// @Summary      Recommend a budget analytic for a document line
// @Description  Runs the rule engine first, then the historical pattern blender. Source "none" means nothing cleared the confidence bar.
// @Tags         auto-analytics
// @Accept       json
// @Produce      json
// @Param        request body recommend.Request true "Line context"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Router       /auto-analytics/recommend [post]
func (h *RecommendHandler) Recommend(c *gin.Context) {
	var req recommend.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	rec, err := h.recommendService.Recommend(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, rec)
}
