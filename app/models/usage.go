package models

import "time"

// Usage counts the recorded generations of one user in one calendar month (UTC, "YYYY-MM").
type Usage struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	UserID    string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_usage_user_month" json:"user_id"`
	Month     string    `gorm:"type:varchar(7);not null;uniqueIndex:idx_usage_user_month" json:"month"`
	Count     int       `gorm:"not null;default:0" json:"count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Usage) TableName() string {
	return "usage"
}
