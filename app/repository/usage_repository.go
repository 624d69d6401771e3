package repository

import (
	"context"
	"errors"
	"time"

	"github.com/vitrinepost/vitrinepost/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// usageRepository implements the UsageRepository interface
type usageRepository struct {
	db *gorm.DB
}

// NewUsageRepository creates a new usage repository instance
func NewUsageRepository(db *gorm.DB) UsageRepository {
	return &usageRepository{db: db}
}

// GetCount returns the stored count for user and month, 0 when no row exists yet.
func (r *usageRepository) GetCount(ctx context.Context, userID, month string) (int, error) {
	var u models.Usage
	err := r.db.WithContext(ctx).Where("user_id = ? AND month = ?", userID, month).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return u.Count, nil
}

// Increment adds one to the month's count with a single upsert statement and
// returns the stored value. The row is created lazily on first use.
func (r *usageRepository) Increment(ctx context.Context, userID, month string) (int, error) {
	var stored models.Usage
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		row := models.Usage{UserID: userID, Month: month, Count: 1, CreatedAt: now, UpdatedAt: now}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "month"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"count":      gorm.Expr("? + 1", clause.Column{Table: models.Usage{}.TableName(), Name: "count"}),
				"updated_at": now,
			}),
		}).Create(&row).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ? AND month = ?", userID, month).First(&stored).Error
	})
	if err != nil {
		return 0, err
	}
	return stored.Count, nil
}

// ListByUser returns the monthly history of a user, newest month first.
func (r *usageRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.Usage, error) {
	var rows []models.Usage
	q := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("month DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
