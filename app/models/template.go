package models

import (
	"time"

	"gorm.io/gorm"
)

// Template is a named layout preset applied to generated artwork.
type Template struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name      string    `gorm:"type:varchar(120);not null" json:"name"`
	Layout    string    `gorm:"type:varchar(60)" json:"layout"`
	Format    string    `gorm:"type:varchar(10)" json:"format"`
	Style     string    `gorm:"type:varchar(255)" json:"style"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Template) TableName() string {
	return "templates"
}

func (t *Template) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = NewID()
	}
	return nil
}
