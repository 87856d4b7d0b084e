package app

import (
	"session_metrics_backend/docs"
	"session_metrics_backend/internal/config"
	"session_metrics_backend/internal/middleware"
	"session_metrics_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.HealthCheck)

	// 会话指标
	router.POST("/insert-session-metrics", middleware.IngestAuth(cfg.JWT.Secret), c.sessionMetrics.InsertSessionMetrics)
	router.GET("/weekly-top5-attention-span", c.sessionMetrics.WeeklyTopAttention)
}
