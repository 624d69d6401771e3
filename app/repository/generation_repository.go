package repository

import (
	"context"

	"github.com/vitrinepost/vitrinepost/app/models"
	"gorm.io/gorm"
)

// generationRepository implements the GenerationRepository interface
type generationRepository struct {
	db *gorm.DB
}

// NewGenerationRepository creates a new generation repository instance
func NewGenerationRepository(db *gorm.DB) GenerationRepository {
	return &generationRepository{db: db}
}

func (r *generationRepository) Create(ctx context.Context, generation *models.Generation) error {
	return r.db.WithContext(ctx).Create(generation).Error
}

// GetByIDForUser retrieves a generation owned by the given user
func (r *generationRepository) GetByIDForUser(ctx context.Context, id, userID string) (*models.Generation, error) {
	var generation models.Generation
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&generation).Error
	if err != nil {
		return nil, err
	}
	return &generation, nil
}

// ListByUser returns a page of the user's generations, newest first
func (r *generationRepository) ListByUser(ctx context.Context, userID string, offset, limit int) ([]models.Generation, error) {
	var generations []models.Generation
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&generations).Error
	return generations, err
}

func (r *generationRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Generation{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// UpdateCaption replaces the caption of a generation owned by the user.
// Returns gorm.ErrRecordNotFound when no such row exists.
func (r *generationRepository) UpdateCaption(ctx context.Context, id, userID, caption string) error {
	res := r.db.WithContext(ctx).Model(&models.Generation{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("caption", caption)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
