package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	FormatFeed  = "feed"
	FormatStory = "story"
)

// Generation is one completed post: durable artwork URL plus the chosen caption.
// Rows are written once by the pipeline; only Caption changes afterwards.
type Generation struct {
	ID         string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID     string         `gorm:"type:varchar(36);index;not null" json:"user_id"`
	ProductID  *string        `gorm:"type:varchar(36);index" json:"product_id"`
	TemplateID *string        `gorm:"type:varchar(36)" json:"template_id"`
	ImageURL   string         `gorm:"type:varchar(1024);not null" json:"image_url"`
	Caption    string         `gorm:"type:text" json:"caption"`
	Format     string         `gorm:"type:varchar(10);not null" json:"format"`
	FieldsData datatypes.JSON `json:"fields_data"`
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

func (Generation) TableName() string {
	return "generations"
}

func (g *Generation) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = NewID()
	}
	return nil
}

// IsValidFormat reports whether f is a supported artwork format.
func IsValidFormat(f string) bool {
	return f == FormatFeed || f == FormatStory
}
