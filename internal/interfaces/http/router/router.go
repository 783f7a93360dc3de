package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fieldline/backend/internal/application/analytics"
	"github.com/fieldline/backend/internal/application/catalogsync"
	"github.com/fieldline/backend/internal/application/hierarchy"
	"github.com/fieldline/backend/internal/application/orderentry"
	"github.com/fieldline/backend/internal/infrastructure/auth"
	"github.com/fieldline/backend/internal/infrastructure/config"
	"github.com/fieldline/backend/internal/infrastructure/logger"
	"github.com/fieldline/backend/internal/interfaces/http/handler"
	"github.com/fieldline/backend/internal/interfaces/http/middleware"
)

// Services groups the application services the router wires up
type Services struct {
	Analytics  *analytics.Service
	OrderEntry *orderentry.Service
	Hierarchy  *hierarchy.Service
	Catalog    *catalogsync.Service
}

// New builds the gin engine with all routes registered
func New(cfg *config.Config, services Services, jwtManager *auth.JWTManager, log *zap.Logger) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authHandler := handler.NewAuthHandler(jwtManager, cfg.Team.ManagerID, cfg.JWT.BootstrapSecret)
	analyticsHandler := handler.NewAnalyticsHandler(services.Analytics, log)
	orderHandler := handler.NewOrderHandler(services.OrderEntry, services.Hierarchy)
	hierarchyHandler := handler.NewHierarchyHandler(services.Hierarchy)
	catalogHandler := handler.NewCatalogHandler(services.Catalog)

	v1 := engine.Group("/api/v1")
	v1.POST("/auth/login", authHandler.Login)

	protected := v1.Group("")
	protected.Use(middleware.JWTAuth(jwtManager))
	{
		protected.GET("/analytics/dashboard", analyticsHandler.Dashboard)
		protected.PUT("/analytics/window", analyticsHandler.SetWindow)
		protected.PUT("/analytics/selection", analyticsHandler.SetSelection)
		protected.GET("/analytics/stream", analyticsHandler.Stream)

		protected.GET("/orders/draft", orderHandler.Draft)
		protected.DELETE("/orders/draft", orderHandler.ClearDraft)
		protected.POST("/orders/draft/lines", orderHandler.StageLine)
		protected.DELETE("/orders/draft/lines/:productID", orderHandler.UnstageLine)
		protected.POST("/orders", orderHandler.Commit)
		protected.DELETE("/orders/:id", orderHandler.SoftDelete)
		protected.POST("/orders/:id/undo", orderHandler.Undo)
		protected.DELETE("/orders/:id/commit", orderHandler.CommitDelete)

		protected.GET("/hierarchy", hierarchyHandler.View)

		protected.POST("/catalog/refresh", catalogHandler.Refresh)
		protected.GET("/catalog/status", catalogHandler.Status)
	}

	return engine
}
