package api

import (
	"net/http"

	"lamx12/nutri-plan/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	authService service.AuthService,
	inferenceHandler *InferenceHandler,
) {
	authHandler := NewAuthHandler(authService)
	authMiddleware := AuthMiddleware(authService.JWTSecret())

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/token", authHandler.IssueToken)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		// POST /api/v1/inference
		protected.POST("/inference", inferenceHandler.Forward)
	}
}
