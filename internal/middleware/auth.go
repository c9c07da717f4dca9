package middleware

import (
	"net/http"
	"strings"

	"github.com/venky2821/finalproject/internal/apierror"
	"github.com/venky2821/finalproject/internal/authz"
	"github.com/venky2821/finalproject/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	ClaimsKey = "claims"
)

// JWTClaims are the custom claims embedded in every access token.
// Subject carries the user's email. Purpose is only set on single-use
// tokens (password reset) and never on access tokens.
type JWTClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	RoleID   int    `json:"role_id"`
	Purpose  string `json:"purpose,omitempty"`
	jwt.RegisteredClaims
}

// JWTAuth validates the Bearer token on every protected route.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Not authenticated"))
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		claims := &JWTClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})

		if err != nil || !token.Valid || !isAccessToken(claims) {
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Could not validate credentials"))
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

func isAccessToken(claims *JWTClaims) bool {
	if claims.Subject == "" || claims.Purpose != "" {
		return false
	}
	_, err := uuid.Parse(claims.UserID)
	return err == nil
}

// RequireCapability rejects requests whose role lacks c. It must run after
// JWTAuth.
func RequireCapability(az authz.Authorizer, capability authz.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil || !az.Allows(model.RoleID(claims.RoleID), capability) {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("Not authorized"))
			return
		}
		c.Next()
	}
}

// GetClaims is a helper to retrieve typed claims from the Gin context.
// It returns nil on routes without JWTAuth.
func GetClaims(c *gin.Context) *JWTClaims {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*JWTClaims)
	return claims
}
