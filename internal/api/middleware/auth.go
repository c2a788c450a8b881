package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/iol-platform/logistics-service/internal/application"
	apperrors "github.com/iol-platform/logistics-service/pkg/errors"
	pkgmiddleware "github.com/iol-platform/logistics-service/pkg/middleware"
)

// Request headers carrying credentials
const (
	HeaderAPIKey       = "x-api-key"
	HeaderServerSecret = "serversecret"
)

// ContextKeyClaims is the gin context key under which verified claims are stored
const ContextKeyClaims = "authClaims"

// TokenVerifier validates a bearer token and returns its claims
type TokenVerifier interface {
	VerifyToken(tokenString string) (*application.Claims, error)
}

// BearerAuth verifies the Authorization bearer token and stores its claims
// in the request context
func BearerAuth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			pkgmiddleware.AbortWithAppError(c, apperrors.ErrUnauthorized("Missing authorization header"))
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			pkgmiddleware.AbortWithAppError(c, apperrors.ErrUnauthorized("Authorization header must be a bearer token"))
			return
		}

		claims, err := verifier.VerifyToken(token)
		if err != nil {
			pkgmiddleware.AbortWithError(c, err)
			return
		}

		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// RequireCompanyAccess ensures the authenticated user belongs to the company
// addressed by the companyId path parameter. It must run after BearerAuth.
func RequireCompanyAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := GetClaims(c)
		if !ok {
			pkgmiddleware.AbortWithAppError(c, apperrors.ErrUnauthorized(""))
			return
		}

		if claims.CompanyID != c.Param("companyId") {
			pkgmiddleware.AbortWithAppError(c, apperrors.ErrForbidden("Access to this company is not allowed"))
			return
		}

		c.Next()
	}
}

// GetClaims returns the verified claims stored by BearerAuth
func GetClaims(c *gin.Context) (*application.Claims, bool) {
	value, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*application.Claims)
	return claims, ok
}

// RequireHeaderSecret gates a route on a shared secret carried in a header.
// The given status and message are returned when the secret does not match.
func RequireHeaderSecret(header, secret string, status int, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" || c.GetHeader(header) != secret {
			pkgmiddleware.AbortWithAppError(c, apperrors.NewAppError(apperrors.CodeUnauthorized, message, status))
			return
		}
		c.Next()
	}
}
