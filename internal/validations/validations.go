package validations

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"resourcehub/internal/utils"
)

// FieldError is one entry of the structured validation error list.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ResourceUpdate is a typed partial-update document. Each field carries its
// own presence rule, and the rules are deliberately asymmetric:
//
//   - Languages applies when the key is present and not null
//     (an empty list clears the set).
//   - Category, Name and URL apply only when present and non-empty.
//   - Free and Notes apply whenever the key is present, including
//     false/empty/null values, which is why they stay raw here.
//
// Callers wanting uniform presence semantics should not get them silently;
// the asymmetry is part of the API contract.
type ResourceUpdate struct {
	Languages *[]string       `json:"languages"`
	Category  *string         `json:"category"`
	Name      *string         `json:"name"`
	URL       *string         `json:"url"`
	Free      json.RawMessage `json:"free"`
	Notes     json.RawMessage `json:"notes"`
}

// HasFree reports whether the free key was present in the request body.
func (u *ResourceUpdate) HasFree() bool { return len(u.Free) > 0 }

// HasNotes reports whether the notes key was present in the request body.
func (u *ResourceUpdate) HasNotes() bool { return len(u.Notes) > 0 }

// FreeValue coerces the raw free value with the permissive boolean parser.
func (u *ResourceUpdate) FreeValue() (bool, bool) {
	var v interface{}
	if err := json.Unmarshal(u.Free, &v); err != nil {
		return false, false
	}
	return utils.EnsureBool(v)
}

// NotesValue returns the notes string, or nil for a JSON null.
func (u *ResourceUpdate) NotesValue() (*string, error) {
	var s *string
	if err := json.Unmarshal(u.Notes, &s); err != nil {
		return nil, err
	}
	return s, nil
}

// ResourceCreate is the document accepted when creating a resource.
type ResourceCreate struct {
	Name      string          `json:"name"`
	URL       string          `json:"url"`
	Category  string          `json:"category"`
	Languages []string        `json:"languages"`
	Free      json.RawMessage `json:"free"`
	Notes     *string         `json:"notes"`
}

// FreeValue coerces the raw free value; an absent key defaults to false.
func (d *ResourceCreate) FreeValue() (bool, bool) {
	if len(d.Free) == 0 {
		return false, true
	}
	var v interface{}
	if err := json.Unmarshal(d.Free, &v); err != nil {
		return false, false
	}
	return utils.EnsureBool(v)
}

// DecodeResourceUpdate parses and validates a partial-update body. A non-nil
// error list means the request must be rejected before any mutation runs.
func DecodeResourceUpdate(r io.Reader) (*ResourceUpdate, []FieldError) {
	var upd ResourceUpdate
	if errs := decodeInto(r, &upd); errs != nil {
		return nil, errs
	}

	var errs []FieldError
	if upd.URL != nil && *upd.URL != "" {
		if err := validateURL(*upd.URL); err != nil {
			errs = append(errs, FieldError{Field: "url", Message: err.Error()})
		}
	}
	if upd.HasFree() {
		if _, ok := upd.FreeValue(); !ok {
			errs = append(errs, FieldError{Field: "free", Message: "must be a boolean or a recognized truthy/falsy value"})
		}
	}
	if upd.HasNotes() {
		if _, err := upd.NotesValue(); err != nil {
			errs = append(errs, FieldError{Field: "notes", Message: "must be a string or null"})
		}
	}
	if upd.Languages != nil {
		for _, name := range *upd.Languages {
			if name == "" {
				errs = append(errs, FieldError{Field: "languages", Message: "language names must be non-empty strings"})
				break
			}
		}
	}
	if errs != nil {
		return nil, errs
	}
	return &upd, nil
}

// DecodeResourceCreate parses and validates a create body.
func DecodeResourceCreate(r io.Reader) (*ResourceCreate, []FieldError) {
	var doc ResourceCreate
	if errs := decodeInto(r, &doc); errs != nil {
		return nil, errs
	}

	var errs []FieldError
	if doc.Name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "is required"})
	}
	if doc.URL == "" {
		errs = append(errs, FieldError{Field: "url", Message: "is required"})
	} else if err := validateURL(doc.URL); err != nil {
		errs = append(errs, FieldError{Field: "url", Message: err.Error()})
	}
	if doc.Category == "" {
		errs = append(errs, FieldError{Field: "category", Message: "is required"})
	}
	if _, ok := doc.FreeValue(); !ok {
		errs = append(errs, FieldError{Field: "free", Message: "must be a boolean or a recognized truthy/falsy value"})
	}
	for _, name := range doc.Languages {
		if name == "" {
			errs = append(errs, FieldError{Field: "languages", Message: "language names must be non-empty strings"})
			break
		}
	}
	if errs != nil {
		return nil, errs
	}
	return &doc, nil
}

func decodeInto(r io.Reader, v interface{}) []FieldError {
	if err := json.NewDecoder(r).Decode(v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return []FieldError{{
				Field:   typeErr.Field,
				Message: fmt.Sprintf("expected %s, got %s", typeErr.Type, typeErr.Value),
			}}
		}
		return []FieldError{{Field: "body", Message: "request body must be a resource object"}}
	}
	return nil
}

func validateURL(raw string) error {
	parsed, err := url.ParseRequestURI(raw)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return errors.New("must be a valid http(s) URL")
	}
	return nil
}
