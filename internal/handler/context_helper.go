package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/acadhub/acadhub-api/internal/middleware"
	"github.com/acadhub/acadhub-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// ownerFromContext resolves the authenticated owner id, empty when absent.
func ownerFromContext(c *gin.Context) string {
	claims := claimsFromContext(c)
	if claims == nil {
		return ""
	}
	return claims.UserID
}
