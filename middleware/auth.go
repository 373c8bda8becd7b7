package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/edsotopublicidad-gif/Sotos-App/config"
	"github.com/edsotopublicidad-gif/Sotos-App/models"
	"github.com/edsotopublicidad-gif/Sotos-App/store"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	Role     models.UserRole `json:"role"`
	ClientID string          `json:"client_id"`
	jwt.RegisteredClaims
}

// GenerateToken creates a signed JWT for a role session. ClientID
// identifies the device so its own writes don't echo back as notifications.
func GenerateToken(role models.UserRole, clientID string) (string, error) {
	claims := Claims{
		Role:     role,
		ClientID: clientID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(config.JWTSecret())
}

// ParseToken validates a raw token string and returns its claims.
func ParseToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return config.JWTSecret(), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	return claims, nil
}

// SessionExpired reports whether the token behind claims was issued before
// the role's password was last changed. Such sessions are force-expired.
func SessionExpired(claims *Claims, auth *store.AuthStore) bool {
	changedAt, err := auth.ChangedAt(claims.Role)
	if err != nil {
		return false
	}
	return claims.IssuedAt != nil && claims.IssuedAt.Time.Before(changedAt)
}

// AuthRequired validates the JWT and injects claims into context. A token
// issued before the role's password was last changed is rejected, which is
// how a password change force-logs-out every open session of that role.
func AuthRequired(auth *store.AuthStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required (Bearer <token>)"})
			c.Abort()
			return
		}
		claims, err := ParseToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}
		if SessionExpired(claims, auth) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Password was changed, please log in again"})
			c.Abort()
			return
		}
		c.Set("role", string(claims.Role))
		c.Set("clientID", claims.ClientID)
		c.Next()
	}
}

// RoleRequired enforces that caller has one of the allowed roles
func RoleRequired(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, exists := c.Get("role")
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{"error": "Role not found in context"})
			c.Abort()
			return
		}
		callerRole := models.UserRole(roleVal.(string))
		for _, r := range roles {
			if callerRole == r {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Access denied. Required role(s): " + rolesString(roles),
		})
		c.Abort()
	}
}

func rolesString(roles []models.UserRole) string {
	s := ""
	for i, r := range roles {
		if i > 0 {
			s += ", "
		}
		s += string(r)
	}
	return s
}

// GetRole extracts caller role from context
func GetRole(c *gin.Context) models.UserRole {
	val, _ := c.Get("role")
	s, _ := val.(string)
	return models.UserRole(s)
}

// GetClientID extracts the caller's session client id from context
func GetClientID(c *gin.Context) string {
	val, _ := c.Get("clientID")
	s, _ := val.(string)
	return s
}
