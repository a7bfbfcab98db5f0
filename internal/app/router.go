package app

import (
	"quizpair_backend/internal/config"
	"quizpair_backend/internal/middleware"
	"quizpair_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
	}

	game := router.Group("/api/game")
	game.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		game.POST("/connect", c.game.Connect)
		game.POST("/answer", c.game.SubmitAnswer)
		game.GET("/current", c.game.GetCurrentGame)
		game.GET("/:id", c.game.GetGame)
	}
}
