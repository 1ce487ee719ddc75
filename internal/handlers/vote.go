package handlers

import (
	"errors"
	"log"
	"net/http"

	"resourcehub/internal/db"
	"resourcehub/internal/models"
	"resourcehub/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type VoteHandler struct{}

func NewVoteHandler() *VoteHandler {
	return &VoteHandler{}
}

// Vote applies one transition of the per-(voter, resource) state machine:
// repeating the current direction toggles the vote off, the opposite
// direction flips it, and a first vote creates the ledger row. Counter
// updates and the ledger mutation commit together.
func (h *VoteHandler) Vote(c *gin.Context) {
	direction := c.Param("direction")
	if direction != models.DirectionUpvote && direction != models.DirectionDownvote {
		// Unknown directions must never silently no-op.
		JSONError(c, http.StatusNotFound, "direction", "vote direction must be 'upvote' or 'downvote'")
		return
	}

	id := uint(utils.StringToInt(c.Param("id")))
	apikey := apikeyFrom(c)

	var resource models.Resource
	if err := db.DB.First(&resource, id).Error; err != nil {
		JSONError(c, http.StatusNotFound, "id", "resource not found")
		return
	}

	column := direction + "s"
	opposite := models.OppositeDirection(direction)
	oppositeColumn := opposite + "s"

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		counter := func(col string, delta int) error {
			return tx.Model(&models.Resource{}).Where("id = ?", resource.ID).
				UpdateColumn(col, gorm.Expr(col+" + ?", delta)).Error
		}
		ledger := tx.Model(&models.VoteInformation{}).
			Where("voter_apikey = ? AND resource_id = ?", apikey, resource.ID)

		var info models.VoteInformation
		err := tx.First(&info, "voter_apikey = ? AND resource_id = ?", apikey, resource.ID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			// First-ever vote by this key on this resource.
			info = models.VoteInformation{
				VoterApikey:      apikey,
				ResourceID:       resource.ID,
				CurrentDirection: &direction,
			}
			if err := tx.Omit("Voter").Create(&info).Error; err != nil {
				return err
			}
			return counter(column, 1)
		case err != nil:
			return err
		case info.CurrentDirection != nil && *info.CurrentDirection == direction:
			// Same direction toggles the vote off.
			if err := ledger.Update("current_direction", nil).Error; err != nil {
				return err
			}
			return counter(column, -1)
		default:
			if info.CurrentDirection != nil && *info.CurrentDirection == opposite {
				if err := counter(oppositeColumn, -1); err != nil {
					return err
				}
			}
			if err := ledger.Update("current_direction", direction).Error; err != nil {
				return err
			}
			return counter(column, 1)
		}
	})
	if err != nil {
		log.Printf("Failed to apply %s by %q on resource %d: %v", direction, apikey, id, err)
		JSONError(c, http.StatusInternalServerError, "vote", "could not apply vote")
		return
	}

	db.DB.Preload("Languages").Preload("Category").First(&resource, id)
	utils.GetCache().Delete(resourceCacheKey(id))
	JSONData(c, http.StatusOK, serializeForKey(&resource, apikey))
}
