package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// ErrIndexUnreachable marks transport-level failures (DNS, refused
// connection, timeout) reaching the search index host.
var ErrIndexUnreachable = errors.New("search index unreachable")

// IndexError is a non-2xx answer from the search index service.
type IndexError struct {
	StatusCode int
	Message    string
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("search index returned status %d: %s", e.StatusCode, e.Message)
}

// SearchService pushes partial document updates to the external search
// index. It is the only network dependency in the mutation path, so callers
// must invoke it before opening a database transaction.
type SearchService struct {
	client  *http.Client
	baseURL string
	apiKey  string
	strict  bool
}

// NewSearchService creates a service against an explicit endpoint. strict
// controls whether index failures abort the caller's mutation.
func NewSearchService(baseURL, apiKey string, strict bool) *SearchService {
	return &SearchService{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		strict:  strict,
	}
}

var searchService *SearchService

// GetSearchService returns the env-configured singleton. Failures are
// tolerated (logged, not propagated) only when APP_ENV=development; every
// other environment runs strict.
func GetSearchService() *SearchService {
	if searchService == nil {
		searchService = NewSearchService(
			os.Getenv("SEARCH_INDEX_URL"),
			os.Getenv("SEARCH_API_KEY"),
			os.Getenv("APP_ENV") != "development",
		)
	}
	return searchService
}

// Strict reports whether index failures must abort the local mutation.
func (s *SearchService) Strict() bool {
	return s.strict
}

// PartialUpdate sends a changed-fields-only patch for one document. The
// payload carries objectID plus exactly the fields supplied; unchanged
// fields must be omitted by the caller.
func (s *SearchService) PartialUpdate(objectID uint, fields map[string]interface{}) error {
	doc := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		doc[k] = v
	}
	doc["objectID"] = objectID

	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding index document: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, fmt.Sprintf("%s/%d/partial", s.baseURL, objectID), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating index request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("X-API-Key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIndexUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &IndexError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}
	return nil
}
