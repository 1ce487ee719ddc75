package models

import (
	"time"
)

type Resource struct {
	ID           uint              `gorm:"primaryKey" json:"id"`
	Name         string            `gorm:"not null" json:"name"`
	URL          string            `gorm:"uniqueIndex;not null" json:"url"`
	Free         bool              `gorm:"default:false" json:"free"`
	Notes        *string           `json:"notes"`
	Upvotes      int               `gorm:"default:0" json:"upvotes"`
	Downvotes    int               `gorm:"default:0" json:"downvotes"`
	TimesClicked int               `gorm:"default:0" json:"times_clicked"`
	CategoryID   uint              `gorm:"not null;index" json:"-"`
	Category     Category          `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"category"`
	Languages    []Language        `gorm:"many2many:resource_languages;" json:"languages"`
	Voters       []VoteInformation `gorm:"foreignKey:ResourceID" json:"-"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"last_updated"`
}

type Language struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"not null;unique" json:"name"`
}

type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"not null;unique" json:"name"`
}

// LanguageNames returns the attached language names in attachment order.
func (r *Resource) LanguageNames() []string {
	names := make([]string, len(r.Languages))
	for i, lang := range r.Languages {
		names[i] = lang.Name
	}
	return names
}

// Serialize returns the canonical representation used both in API responses
// and as the source of truth for search index documents. Languages and
// category appear as plain names, matching the index document format.
func (r *Resource) Serialize() map[string]interface{} {
	return map[string]interface{}{
		"id":            r.ID,
		"name":          r.Name,
		"url":           r.URL,
		"free":          r.Free,
		"notes":         r.Notes,
		"category":      r.Category.Name,
		"languages":     r.LanguageNames(),
		"upvotes":       r.Upvotes,
		"downvotes":     r.Downvotes,
		"times_clicked": r.TimesClicked,
		"created_at":    r.CreatedAt,
		"last_updated":  r.UpdatedAt,
	}
}
