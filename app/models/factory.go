package models

import (
	"time"

	"gorm.io/gorm"
)

// Factory is a manufacturer publishing products to the catalog.
type Factory struct {
	ID              string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	OwnerID         string    `gorm:"type:varchar(36);index" json:"owner_id"`
	Name            string    `gorm:"type:varchar(255);not null" json:"name" validate:"required,max=255"`
	Niche           string    `gorm:"type:varchar(255)" json:"niche"`
	Differentiators string    `gorm:"type:text" json:"differentiators"`
	BrandVoice      string    `gorm:"type:varchar(255)" json:"brand_voice"`
	TargetAudience  string    `gorm:"type:varchar(255)" json:"target_audience"`
	LogoURL         string    `gorm:"type:varchar(1024)" json:"logo_url"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (Factory) TableName() string {
	return "factories"
}

func (f *Factory) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = NewID()
	}
	return nil
}
