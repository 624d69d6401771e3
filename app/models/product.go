package models

import (
	"time"

	"gorm.io/gorm"
)

// Category groups catalog products.
type Category struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name      string    `gorm:"type:varchar(120);not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (Category) TableName() string {
	return "categories"
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = NewID()
	}
	return nil
}

// Product is a catalog item a lojista can generate posts for.
type Product struct {
	ID             string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	FactoryID      *string   `gorm:"type:varchar(36);index" json:"factory_id"`
	CategoryID     *string   `gorm:"type:varchar(36);index" json:"category_id"`
	Category       *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Name           string    `gorm:"type:varchar(255);not null" json:"name" validate:"required,max=255"`
	Description    string    `gorm:"type:text" json:"description"`
	MainBenefit    string    `gorm:"type:varchar(255)" json:"main_benefit"`
	TechnicalSpecs string    `gorm:"type:text" json:"technical_specs"`
	ImageURL       string    `gorm:"type:varchar(1024)" json:"image_url"`
	IsActive       bool      `gorm:"default:true" json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = NewID()
	}
	return nil
}
