package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const bearerPrefix = "Bearer"

// ServiceClaims identifies the calling service in a service-to-service token
type ServiceClaims struct {
	Service string `json:"service"`
	jwt.RegisteredClaims
}

// ServiceAuth validates HS256 bearer tokens for service-to-service calls.
// The check is stateless; the shared secret is the only trust anchor. An
// empty secret disables the middleware entirely, which is the development
// default.
func ServiceAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		var tokenString string
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			// Extract token from "Bearer <token>"
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == bearerPrefix {
				tokenString = parts[1]
			}
		}

		if tokenString == "" {
			unauthorized(c, "Authorization required")
			return
		}

		// Parse and validate token
		claims := &ServiceClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			// Verify signing method
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(secret), nil
		})

		if err != nil || !token.Valid {
			unauthorized(c, "Invalid or expired token")
			return
		}

		if claims.Service != "" {
			c.Set("calling_service", claims.Service)
		}

		c.Next()
	}
}

func unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"error":      "Unauthorized",
		"message":    message,
		"request_id": c.GetString("request_id"),
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	})
	c.Abort()
}
