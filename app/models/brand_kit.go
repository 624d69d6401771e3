package models

import (
	"time"

	"gorm.io/gorm"
)

// BrandKit holds the visual identity and contact data of a store. At most one per user.
type BrandKit struct {
	ID               string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID           string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"user_id"`
	StoreName        string    `gorm:"type:varchar(255)" json:"store_name"`
	StoreType        string    `gorm:"type:varchar(120)" json:"store_type"`
	City             string    `gorm:"type:varchar(120)" json:"city"`
	State            string    `gorm:"type:varchar(60)" json:"state"`
	BrandVoice       string    `gorm:"type:varchar(255)" json:"brand_voice"`
	InstagramHandle  string    `gorm:"type:varchar(120)" json:"instagram_handle"`
	WhatsApp         string    `gorm:"type:varchar(40)" json:"whatsapp"`
	PrimaryColor     string    `gorm:"type:varchar(16)" json:"primary_color" validate:"omitempty,hexcolor"`
	SecondaryColor   string    `gorm:"type:varchar(16)" json:"secondary_color" validate:"omitempty,hexcolor"`
	LogoURL          string    `gorm:"type:varchar(1024)" json:"logo_url"`
	WatermarkEnabled bool      `gorm:"default:false" json:"watermark_enabled"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (BrandKit) TableName() string {
	return "brand_kits"
}

func (b *BrandKit) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = NewID()
	}
	return nil
}
