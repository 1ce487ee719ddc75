package models

import (
	"time"
)

// Key is an API credential. Issuance and rotation happen outside this
// service; votes and mutations only look keys up to attribute the caller.
type Key struct {
	Apikey    string    `gorm:"primaryKey;size:64" json:"apikey"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
