package http

import (
	"github.com/deval2498/Spotmf/ports"
	"github.com/deval2498/Spotmf/service"
	"github.com/gin-gonic/gin"
)

// SetupRouter sets up the Gin router.
func SetupRouter(auth *service.AuthService, actions *service.ActionService, tokenizer ports.Tokenizer) *gin.Engine {
	router := gin.Default()

	handlers := NewHandlers(auth, actions)

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/challenge", handlers.Challenge)
		authGroup.POST("/verify", handlers.Verify)
	}

	protected := router.Group("/")
	protected.Use(AuthMiddleware(tokenizer))
	{
		protected.POST("/actions", handlers.CreateAction)
		protected.POST("/actions/redeem", handlers.RedeemAction)
		protected.GET("/api/me", handlers.Me)
	}

	return router
}
