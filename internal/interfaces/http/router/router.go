package router

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/budgeterp/backend/internal/domain/document"
	"github.com/budgeterp/backend/internal/infrastructure/config"
	"github.com/budgeterp/backend/internal/infrastructure/logger"
	"github.com/budgeterp/backend/internal/interfaces/http/handler"
	"github.com/budgeterp/backend/internal/interfaces/http/middleware"
)

// Handlers bundles the resource handlers the router wires up
type Handlers struct {
	Analytic  *handler.AnalyticHandler
	Rule      *handler.RuleHandler
	Budget    *handler.BudgetHandler
	Document  *handler.DocumentHandler
	Recommend *handler.RecommendHandler
	System    *handler.SystemHandler
}

// New builds the gin engine with the standard middleware chain and all
// API routes registered under /api/v1.
func New(cfg *config.Config, log *zap.Logger, h Handlers) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsCfg))

	if cfg.Telemetry.Enabled {
		engine.Use(otelgin.Middleware(cfg.App.Name))
	}

	engine.GET("/health", h.System.Health)

	api := engine.Group("/api/v1")
	registerAnalyticRoutes(api, h.Analytic)
	registerRuleRoutes(api, h.Rule)
	registerBudgetRoutes(api, h.Budget)
	registerDocumentRoutes(api, h.Document)
	registerRecommendRoutes(api, h.Recommend)

	return engine
}

func registerAnalyticRoutes(api *gin.RouterGroup, h *handler.AnalyticHandler) {
	analytics := api.Group("/analytics")
	analytics.POST("", h.Create)
	analytics.GET("", h.List)
	analytics.GET("/:id", h.GetByID)
	analytics.PUT("/:id", h.Update)
	analytics.DELETE("/:id", h.Archive)
	analytics.DELETE("/:id/permanent", h.DeletePermanently)
	analytics.POST("/:id/confirm", h.Confirm)
	analytics.POST("/:id/unarchive", h.Unarchive)
}

func registerRuleRoutes(api *gin.RouterGroup, h *handler.RuleHandler) {
	rules := api.Group("/auto-assign-rules")
	rules.POST("", h.Create)
	rules.GET("", h.List)
	rules.GET("/:id", h.GetByID)
	rules.PUT("/:id", h.Update)
	rules.DELETE("/:id", h.Delete)
}

func registerBudgetRoutes(api *gin.RouterGroup, h *handler.BudgetHandler) {
	budgets := api.Group("/budgets")
	budgets.POST("", h.Create)
	budgets.GET("", h.List)
	budgets.GET("/:id", h.GetByID)
	budgets.PUT("/:id", h.Update)
	budgets.DELETE("/:id", h.Delete)
	budgets.PATCH("/:id/status", h.UpdateStatus)
	budgets.POST("/:id/revise", h.Revise)
	budgets.GET("/:id/analytic/:analytic_id/details", h.AnalyticDetails)
}

// registerDocumentRoutes wires the shared document lifecycle for each
// document kind under its own URL segment.
func registerDocumentRoutes(api *gin.RouterGroup, h *handler.DocumentHandler) {
	segments := map[string]document.DocumentKind{
		"purchase-orders":   document.KindPurchaseOrder,
		"vendor-bills":      document.KindVendorBill,
		"customer-invoices": document.KindCustomerInvoice,
	}

	for segment, kind := range segments {
		docs := api.Group("/" + segment)
		docs.POST("", h.Create(kind))
		docs.GET("", h.List(kind))
		docs.GET("/:id", h.GetByID(kind))
		docs.PUT("/:id", h.Update(kind))
		docs.DELETE("/:id", h.Delete(kind))
		docs.POST("/:id/confirm", h.Confirm(kind))
		docs.POST("/:id/cancel", h.Cancel(kind))
		docs.POST("/:id/send", h.Send(kind))
		docs.GET("/:id/pdf", h.ExportPDF(kind))
		docs.POST("/:id/create-payment", h.RecordPayment(kind))
		docs.POST("/:id/verify-payment", h.VerifyPayment(kind))
		docs.POST("/:id/lines/:line_id/assign", h.AssignLine(kind))
	}
}

func registerRecommendRoutes(api *gin.RouterGroup, h *handler.RecommendHandler) {
	api.POST("/auto-analytics/recommend", h.Recommend)
}
