package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"resourcehub/internal/db"
	"resourcehub/internal/middleware"
	"resourcehub/internal/models"
	"resourcehub/internal/services"
	"resourcehub/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB points the global handle at a fresh in-memory database. The
// shared-cache DSN keeps every pooled connection on the same database, and
// the test name keeps databases isolated between tests.
func setupTestDB(t *testing.T) {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(
		&models.Key{},
		&models.Category{},
		&models.Language{},
		&models.Resource{},
		&models.VoteInformation{},
	))
	db.DB = gdb
	utils.GetCache().Purge()
}

// indexRecorder captures every document the handlers push to the fake
// search index.
type indexRecorder struct {
	mu     sync.Mutex
	calls  []map[string]interface{}
	status int
}

func (rec *indexRecorder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var doc map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&doc); err == nil {
		rec.mu.Lock()
		rec.calls = append(rec.calls, doc)
		rec.mu.Unlock()
	}
	if rec.status != 0 {
		w.WriteHeader(rec.status)
	}
}

func (rec *indexRecorder) count() int {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return len(rec.calls)
}

func (rec *indexRecorder) last() map[string]interface{} {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.calls) == 0 {
		return nil
	}
	return rec.calls[len(rec.calls)-1]
}

// newTestSearch starts a fake index endpoint and returns a client bound to
// it, plus the recorder for payload assertions.
func newTestSearch(t *testing.T, strict bool) (*services.SearchService, *indexRecorder) {
	t.Helper()
	rec := &indexRecorder{}
	server := httptest.NewServer(rec)
	t.Cleanup(server.Close)
	return services.NewSearchService(server.URL, "test-key", strict), rec
}

// unreachableSearch returns a client pointing at a closed listener.
func unreachableSearch(t *testing.T, strict bool) *services.SearchService {
	t.Helper()
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()
	return services.NewSearchService(url, "test-key", strict)
}

// newTestRouter wires the production routes around an injected search
// client so tests control the index endpoint and strictness.
func newTestRouter(search *services.SearchService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.LoadKey())

	resourceHandler := &ResourceHandler{search: search}
	voteHandler := NewVoteHandler()
	tagHandler := NewTagHandler()

	r.GET("/resources", resourceHandler.List)
	r.GET("/resources/:id", resourceHandler.Get)
	r.GET("/languages", tagHandler.ListLanguages)
	r.GET("/categories", tagHandler.ListCategories)
	r.PUT("/resources/:id/click", resourceHandler.Click)

	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.POST("/resources", resourceHandler.Create)
		authorized.PUT("/resources/:id", resourceHandler.Update)
		authorized.PUT("/resources/:id/:direction", voteHandler.Vote)
	}
	return r
}

func performRequest(r http.Handler, method, path, apikey string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if apikey != "" {
		req.Header.Set("x-apikey", apikey)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func putJSON(r http.Handler, path, apikey, body string) *httptest.ResponseRecorder {
	return performRequest(r, http.MethodPut, path, apikey, strings.NewReader(body))
}

func seedKey(t *testing.T, apikey string) {
	t.Helper()
	require.NoError(t, db.DB.Create(&models.Key{Apikey: apikey, Email: apikey + "@example.com"}).Error)
}

func seedResource(t *testing.T, name, url, category string, languages ...string) *models.Resource {
	t.Helper()
	var categ models.Category
	require.NoError(t, db.DB.Where(models.Category{Name: category}).FirstOrCreate(&categ).Error)

	langs := make([]models.Language, 0, len(languages))
	for _, l := range languages {
		var lang models.Language
		require.NoError(t, db.DB.Where(models.Language{Name: l}).FirstOrCreate(&lang).Error)
		langs = append(langs, lang)
	}

	notes := "seed notes"
	resource := models.Resource{
		Name:       name,
		URL:        url,
		Free:       true,
		Notes:      &notes,
		CategoryID: categ.ID,
		Category:   categ,
		Languages:  langs,
	}
	require.NoError(t, db.DB.Omit("Category", "Languages.*").Create(&resource).Error)
	return &resource
}

func reloadResource(t *testing.T, id uint) *models.Resource {
	t.Helper()
	var resource models.Resource
	require.NoError(t, db.DB.Preload("Languages").Preload("Category").First(&resource, id).Error)
	return &resource
}

func countWhere(t *testing.T, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.DB.Model(model).Where(query, args...).Count(&n).Error)
	return n
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body struct {
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Data
}
