package http

import (
	"net/http"
	"strings"

	"github.com/deval2498/Spotmf/ports"
	"github.com/gin-gonic/gin"
)

// ContextWalletKey is the gin context key holding the authenticated wallet.
const ContextWalletKey = "walletAddress"

// AuthMiddleware creates middleware that validates the bearer credential and
// stores the bound wallet in the request context.
func AuthMiddleware(tokenizer ports.Tokenizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header"})
			return
		}

		wallet, err := tokenizer.Verify(token)
		if err != nil {
			// Deliberately one error shape for expired and forged tokens.
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(ContextWalletKey, wallet)
		c.Next()
	}
}
