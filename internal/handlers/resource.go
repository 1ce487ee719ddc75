package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"time"

	"resourcehub/internal/db"
	"resourcehub/internal/models"
	"resourcehub/internal/services"
	"resourcehub/internal/utils"
	"resourcehub/internal/validations"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ResourceHandler struct {
	search *services.SearchService
}

func NewResourceHandler() *ResourceHandler {
	return &ResourceHandler{
		search: services.GetSearchService(),
	}
}

// List returns a page of resources. Pages are cached briefly; mutations
// rely on the short TTL rather than invalidating every page key.
func (h *ResourceHandler) List(c *gin.Context) {
	page := 1
	if p := utils.StringToInt(c.Query("page")); p > 0 {
		page = p
	}
	perPage := 20
	if ps := utils.StringToInt(c.Query("page_size")); ps > 0 && ps <= 100 {
		perPage = ps
	}

	cacheKey := fmt.Sprintf("resources:page:%d:size:%d", page, perPage)
	if cached := utils.GetCache().Get(cacheKey); cached != nil {
		if data, ok := cached.(gin.H); ok {
			c.JSON(http.StatusOK, data)
			return
		}
	}

	var total int64
	db.DB.Model(&models.Resource{}).Count(&total)
	totalPages := int(math.Ceil(float64(total) / float64(perPage)))
	if totalPages == 0 {
		totalPages = 1
	}

	var resources []models.Resource
	db.DB.Preload("Languages").Preload("Category").
		Order("id ASC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&resources)

	serialized := make([]map[string]interface{}, len(resources))
	for i := range resources {
		serialized[i] = resources[i].Serialize()
	}

	data := gin.H{
		"data":        serialized,
		"page":        page,
		"total":       total,
		"total_pages": totalPages,
	}
	utils.GetCache().Set(cacheKey, data, 1*time.Minute)
	c.JSON(http.StatusOK, data)
}

// Get returns one resource, with the caller's vote direction when known.
func (h *ResourceHandler) Get(c *gin.Context) {
	id := uint(utils.StringToInt(c.Param("id")))

	var resource *models.Resource
	if cached := utils.GetCache().Get(resourceCacheKey(id)); cached != nil {
		if r, ok := cached.(*models.Resource); ok {
			resource = r
		}
	}
	if resource == nil {
		var loaded models.Resource
		if err := db.DB.Preload("Languages").Preload("Category").First(&loaded, id).Error; err != nil {
			JSONError(c, http.StatusNotFound, "id", "resource not found")
			return
		}
		resource = &loaded
		utils.GetCache().Set(resourceCacheKey(id), resource, 5*time.Minute)
	}

	JSONData(c, http.StatusOK, serializeForKey(resource, apikeyFrom(c)))
}

// Create inserts a validated resource, reconciling its tags, then pushes
// the full document to the search index. Identity is only known after the
// commit, so unlike Update the index call follows it and failures are
// logged instead of gating persistence.
func (h *ResourceHandler) Create(c *gin.Context) {
	doc, errs := validations.DecodeResourceCreate(c.Request.Body)
	if errs != nil {
		JSONErrors(c, http.StatusUnprocessableEntity, errs)
		return
	}

	free, _ := doc.FreeValue()
	resource := models.Resource{
		Name:  doc.Name,
		URL:   doc.URL,
		Free:  free,
		Notes: doc.Notes,
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		categ, err := reconcileCategory(tx, doc.Category)
		if err != nil {
			return err
		}
		resource.CategoryID = categ.ID
		resource.Category = categ

		langs, err := reconcileLanguages(tx, doc.Languages)
		if err != nil {
			return err
		}
		resource.Languages = langs

		return tx.Omit("Category", "Languages.*").Create(&resource).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			JSONError(c, http.StatusUnprocessableEntity, "url", "a resource with this url already exists")
			return
		}
		log.Printf("Failed to create resource %q: %v", doc.Name, err)
		JSONError(c, http.StatusInternalServerError, "resource", "could not create resource")
		return
	}

	indexDoc := resource.Serialize()
	delete(indexDoc, "id")
	if err := h.search.PartialUpdate(resource.ID, indexDoc); err != nil {
		log.Printf("Search index save failed for new resource %d: %v", resource.ID, err)
	}

	JSONData(c, http.StatusCreated, serializeForKey(&resource, apikeyFrom(c)))
}

// Update applies a partial-update document to a resource. Field presence
// rules are documented on validations.ResourceUpdate. The index patch is
// pushed before the transaction opens so no row locks are held during the
// network round trip, and so a failed index call can veto the commit in
// strict mode.
func (h *ResourceHandler) Update(c *gin.Context) {
	upd, errs := validations.DecodeResourceUpdate(c.Request.Body)
	if errs != nil {
		JSONErrors(c, http.StatusUnprocessableEntity, errs)
		return
	}

	id := uint(utils.StringToInt(c.Param("id")))
	var resource models.Resource
	if err := db.DB.Preload("Languages").Preload("Category").First(&resource, id).Error; err != nil {
		JSONError(c, http.StatusNotFound, "id", "resource not found")
		return
	}

	// Diagnostic trail: record pre-mutation state before anything changes.
	if old, err := json.Marshal(resource.Serialize()); err == nil {
		log.Printf("Updating resource %d. Old data: %s", resource.ID, old)
	}

	// Stage changes in memory and mirror exactly the changed fields into
	// the index fragment.
	fragment := map[string]interface{}{}

	replaceLanguages := upd.Languages != nil
	var languageNames []string
	oldLanguages := resource.Languages
	if replaceLanguages {
		languageNames = canonicalLanguageNames(*upd.Languages)
		fragment["languages"] = languageNames
	}

	replaceCategory := upd.Category != nil && *upd.Category != ""
	oldCategory := resource.Category
	if replaceCategory {
		fragment["category"] = *upd.Category
	}

	if upd.Name != nil && *upd.Name != "" {
		resource.Name = *upd.Name
		fragment["name"] = *upd.Name
	}
	if upd.URL != nil && *upd.URL != "" {
		resource.URL = *upd.URL
		fragment["url"] = *upd.URL
	}
	if upd.HasFree() {
		free, _ := upd.FreeValue()
		resource.Free = free
		fragment["free"] = free
	}
	if upd.HasNotes() {
		notes, _ := upd.NotesValue()
		resource.Notes = notes
		fragment["notes"] = notes
	}

	if err := h.search.PartialUpdate(resource.ID, fragment); err != nil {
		if h.search.Strict() {
			msg := fmt.Sprintf("search index failed to update resource '%s': %v", resource.Name, err)
			log.Print(msg)
			JSONError(c, http.StatusServiceUnavailable, "search-index", msg)
			return
		}
		log.Printf("Search index update failed for resource %d, tolerated outside strict mode: %v", resource.ID, err)
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if replaceLanguages {
			langs, err := reconcileLanguages(tx, languageNames)
			if err != nil {
				return err
			}
			assoc := tx.Model(&resource).Association("Languages")
			if len(langs) == 0 {
				err = assoc.Clear()
			} else {
				err = assoc.Replace(langs)
			}
			if err != nil {
				return err
			}
			resource.Languages = langs
			if err := deleteOrphanLanguages(tx, oldLanguages); err != nil {
				return err
			}
		}
		if replaceCategory {
			categ, err := reconcileCategory(tx, *upd.Category)
			if err != nil {
				return err
			}
			resource.CategoryID = categ.ID
			resource.Category = categ
		}
		if err := tx.Omit(clause.Associations).Save(&resource).Error; err != nil {
			return err
		}
		if replaceCategory && oldCategory.ID != resource.CategoryID {
			if err := deleteOrphanCategory(tx, oldCategory); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			JSONError(c, http.StatusUnprocessableEntity, "resource", "a resource with conflicting unique fields already exists")
			return
		}
		log.Printf("Failed to update resource %d: %v", resource.ID, err)
		JSONError(c, http.StatusInternalServerError, "resource", "could not update resource")
		return
	}

	utils.GetCache().Delete(resourceCacheKey(resource.ID))
	JSONData(c, http.StatusOK, serializeForKey(&resource, apikeyFrom(c)))
}

// Click bumps the click counter. No API key is required, and the increment
// happens in SQL so concurrent clicks never lose updates.
func (h *ResourceHandler) Click(c *gin.Context) {
	id := uint(utils.StringToInt(c.Param("id")))
	var resource models.Resource
	if err := db.DB.First(&resource, id).Error; err != nil {
		JSONError(c, http.StatusNotFound, "id", "resource not found")
		return
	}

	err := db.DB.Model(&models.Resource{}).Where("id = ?", id).
		UpdateColumn("times_clicked", gorm.Expr("times_clicked + ?", 1)).Error
	if err != nil {
		log.Printf("Failed to record click on resource %d: %v", id, err)
		JSONError(c, http.StatusInternalServerError, "resource", "could not record click")
		return
	}

	db.DB.Preload("Languages").Preload("Category").First(&resource, id)
	utils.GetCache().Delete(resourceCacheKey(id))
	JSONData(c, http.StatusOK, serializeForKey(&resource, apikeyFrom(c)))
}
