package handlers

import (
	"net/http"
	"resourcehub/internal/db"
	"resourcehub/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// canonicalLanguageNames dedupes a requested language list by natural key,
// preserving order. Name uniqueness is what makes two requests for "Python"
// resolve to the same row.
func canonicalLanguageNames(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// reconcileLanguages resolves language names to canonical rows, reusing
// existing rows by name and creating rows for unseen names.
func reconcileLanguages(tx *gorm.DB, names []string) ([]models.Language, error) {
	langs := make([]models.Language, 0, len(names))
	for _, name := range canonicalLanguageNames(names) {
		var lang models.Language
		if err := tx.Where(models.Language{Name: name}).FirstOrCreate(&lang).Error; err != nil {
			return nil, err
		}
		langs = append(langs, lang)
	}
	return langs, nil
}

// reconcileCategory resolves a category name to its canonical row.
func reconcileCategory(tx *gorm.DB, name string) (models.Category, error) {
	var categ models.Category
	err := tx.Where(models.Category{Name: name}).FirstOrCreate(&categ).Error
	return categ, err
}

// deleteOrphanLanguages removes replaced languages that no resource
// references anymore. The NOT EXISTS re-check runs inside the DELETE
// statement itself, so two concurrent updates dropping the same language
// cannot both act on a stale reference count.
func deleteOrphanLanguages(tx *gorm.DB, replaced []models.Language) error {
	for _, lang := range replaced {
		err := tx.Exec(
			`DELETE FROM languages WHERE id = ? AND NOT EXISTS (SELECT 1 FROM resource_languages WHERE language_id = languages.id)`,
			lang.ID,
		).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// deleteOrphanCategory removes a replaced category once nothing uses it.
func deleteOrphanCategory(tx *gorm.DB, replaced models.Category) error {
	return tx.Exec(
		`DELETE FROM categories WHERE id = ? AND NOT EXISTS (SELECT 1 FROM resources WHERE category_id = categories.id)`,
		replaced.ID,
	).Error
}

type TagHandler struct{}

func NewTagHandler() *TagHandler {
	return &TagHandler{}
}

// ListLanguages returns every language currently referenced by a resource.
func (h *TagHandler) ListLanguages(c *gin.Context) {
	var langs []models.Language
	if err := db.DB.Order("name ASC").Find(&langs).Error; err != nil {
		JSONError(c, http.StatusInternalServerError, "languages", "could not load languages")
		return
	}
	JSONData(c, http.StatusOK, langs)
}

// ListCategories returns every known category.
func (h *TagHandler) ListCategories(c *gin.Context) {
	var categories []models.Category
	if err := db.DB.Order("name ASC").Find(&categories).Error; err != nil {
		JSONError(c, http.StatusInternalServerError, "categories", "could not load categories")
		return
	}
	JSONData(c, http.StatusOK, categories)
}
