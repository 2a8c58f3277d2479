// Package middleware carries the gin middleware for the admin surface: JWT
// verification and role checks. The student endpoints stay outside it, their
// only credential is the access token in the URL.
package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/rs/zerolog/log"

	"github.com/collegekit/feedback-api/internal/dto"
)

// claimsKey is where RequireAdmin stores the parsed claims on the context.
const claimsKey = "adminClaims"

// AdminClaims is the verified identity of the calling admin user.
type AdminClaims struct {
	UserID    uint
	CollegeID uint
	Email     string
	Role      string
}

// RequireAdmin verifies the bearer token and stores AdminClaims on the
// context. Requests without a valid token are rejected with 401.
func RequireAdmin(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			abortUnauthorized(c, "missing bearer token")
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			log.Warn().Err(err).Msg("RequireAdmin: token rejected")
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		mapClaims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortUnauthorized(c, "invalid token claims")
			return
		}
		claims, ok := claimsFromMap(mapClaims)
		if !ok {
			abortUnauthorized(c, "invalid token claims")
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireRole allows the request through only when the verified role is one
// of roles. Must run after RequireAdmin.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			abortUnauthorized(c, "missing bearer token")
			return
		}
		for _, role := range roles {
			if claims.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{
			Status:  "error",
			Message: "insufficient role",
		})
	}
}

// ClaimsFrom returns the AdminClaims stored by RequireAdmin.
func ClaimsFrom(c *gin.Context) (AdminClaims, bool) {
	value, exists := c.Get(claimsKey)
	if !exists {
		return AdminClaims{}, false
	}
	claims, ok := value.(AdminClaims)
	return claims, ok
}

func claimsFromMap(m jwt.MapClaims) (AdminClaims, bool) {
	sub, okSub := numericClaim(m["sub"])
	college, okCollege := numericClaim(m["college_id"])
	email, okEmail := m["email"].(string)
	role, okRole := m["role"].(string)
	if !okSub || !okCollege || !okEmail || !okRole {
		return AdminClaims{}, false
	}
	return AdminClaims{UserID: sub, CollegeID: college, Email: email, Role: role}, true
}

// numericClaim tolerates the two shapes numbers take after a JWT roundtrip:
// float64 from JSON decoding and native uint when the token was issued in
// process (tests).
func numericClaim(v interface{}) (uint, bool) {
	switch n := v.(type) {
	case float64:
		return uint(n), true
	case uint:
		return n, true
	case int:
		return uint(n), true
	}
	return 0, false
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
		Status:  "error",
		Message: message,
	})
}
