package middleware

import (
	"net/http"
	"resourcehub/internal/db"
	"resourcehub/internal/models"

	"github.com/gin-gonic/gin"
)

const AuthKeyKey = "auth_key"

// LoadKey looks up the caller's credential when an x-apikey header is
// present and sets it on the context. Unknown keys are simply not set.
func LoadKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		apikey := c.GetHeader("x-apikey")
		if apikey != "" {
			var key models.Key
			if err := db.DB.First(&key, "apikey = ?", apikey).Error; err == nil {
				c.Set(AuthKeyKey, &key)
			}
		}
		c.Next()
	}
}

// AuthRequired rejects requests that did not present a known API key.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(AuthKeyKey); !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"errors": []gin.H{{"field": "apikey", "message": "a valid x-apikey header is required"}},
			})
			return
		}
		c.Next()
	}
}
