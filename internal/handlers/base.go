package handlers

import (
	"fmt"
	"resourcehub/internal/db"
	"resourcehub/internal/middleware"
	"resourcehub/internal/models"
	"resourcehub/internal/validations"

	"github.com/gin-gonic/gin"
)

// JSONData wraps a successful payload in the standard envelope.
func JSONData(c *gin.Context, code int, data interface{}) {
	c.JSON(code, gin.H{"data": data})
}

// JSONErrors reports a structured list of field-level errors.
func JSONErrors(c *gin.Context, code int, errs []validations.FieldError) {
	c.JSON(code, gin.H{"errors": errs})
}

// JSONError reports a single error in the same envelope.
func JSONError(c *gin.Context, code int, field, message string) {
	JSONErrors(c, code, []validations.FieldError{{Field: field, Message: message}})
}

// apikeyFrom returns the authenticated caller's apikey, or "" when the
// request carried no valid credential.
func apikeyFrom(c *gin.Context) string {
	if key, exists := c.Get(middleware.AuthKeyKey); exists {
		return key.(*models.Key).Apikey
	}
	return ""
}

// serializeForKey renders a resource, adding the caller's current vote
// direction when they have an active vote on it. Which fields a credential
// may see is decided here, not in the model.
func serializeForKey(r *models.Resource, apikey string) map[string]interface{} {
	out := r.Serialize()
	if apikey != "" {
		var info models.VoteInformation
		err := db.DB.First(&info, "voter_apikey = ? AND resource_id = ?", apikey, r.ID).Error
		if err == nil && info.CurrentDirection != nil {
			out["vote_direction"] = *info.CurrentDirection
		}
	}
	return out
}

func resourceCacheKey(id uint) string {
	return fmt.Sprintf("resource:%d", id)
}
