package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/luct-reporting/reporting-api/internal/middleware"
	"github.com/luct-reporting/reporting-api/internal/models"
	"github.com/luct-reporting/reporting-api/internal/scope"
)

// claimsFromContext extracts the authenticated claims set by the JWT
// middleware. The second return is false for unauthenticated requests.
func claimsFromContext(c *gin.Context) (*models.JWTClaims, bool) {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*models.JWTClaims)
	return claims, ok
}

// identityFromContext converts the request claims into the identity
// threaded through services and repositories.
func identityFromContext(c *gin.Context) (scope.Identity, bool) {
	claims, ok := claimsFromContext(c)
	if !ok {
		return scope.Identity{}, false
	}
	return scope.Identity{
		ID:      claims.UserID,
		Name:    claims.Name,
		Role:    claims.Role,
		Faculty: claims.Faculty,
	}, true
}
