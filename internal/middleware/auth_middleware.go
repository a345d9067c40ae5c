package middleware

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	autherrors "github.com/mr-RSA369/leave-management-api/internal/auth/errors"
	"github.com/mr-RSA369/leave-management-api/internal/shared/response"
	"github.com/mr-RSA369/leave-management-api/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware validates the bearer token and copies the identity
// claims into the gin context ("user_id", "role"). Every leave route
// sits behind it.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found || tokenString == "" {
			response.Error(c, http.StatusUnauthorized, "Unauthenticated", nil)
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(os.Getenv("JWT_SECRET")), nil
		})

		if err != nil || !token.Valid {
			errObj := autherrors.ErrInvalidToken
			if err != nil && strings.Contains(err.Error(), "expired") {
				errObj = autherrors.ErrTokenExpired
			}
			response.Error(c, errObj.HTTPStatus, errObj.Message, nil)
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "Invalid token claims", nil)
			c.Abort()
			return
		}

		userID, ok := claims["user_id"].(string)
		if !ok || userID == "" {
			response.Error(c, http.StatusUnauthorized, "User ID not found in token", nil)
			c.Abort()
			return
		}

		roleClaim, _ := claims["role"].(string)
		role, err := user.ParseRole(roleClaim)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "Role not found in token", nil)
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Set("role", role.String())

		c.Next()
	}
}

// RequireRoles rejects the request unless the authenticated role is in
// the allowed set. Route-level coarse check; the approval hierarchy
// itself is enforced inside the leave service.
func RequireRoles(allowed ...user.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := user.Role(c.GetString("role"))

		for _, a := range allowed {
			if role == a {
				c.Next()
				return
			}
		}

		response.Error(c, http.StatusForbidden, "You do not have permission to access this resource", nil)
		c.Abort()
	}
}
