package repository

import (
	"context"
	"strings"
	"time"

	"github.com/vitrinepost/vitrinepost/app/models"
	"gorm.io/gorm"
)

// profileRepository implements the ProfileRepository interface
type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository instance
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(ctx context.Context, profile *models.Profile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *profileRepository) Update(ctx context.Context, profile *models.Profile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

// GetByID retrieves a profile by the auth user id
func (r *profileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetByAPIKeyHash resolves an active API key hash to its profile.
func (r *profileRepository) GetByAPIKeyHash(ctx context.Context, hash string) (*models.Profile, error) {
	trimmed := strings.TrimSpace(hash)
	if trimmed == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var profile models.Profile
	query := r.db.WithContext(ctx).Where("api_key_hash = ? AND api_key_hash <> '' AND api_key_revoked_at IS NULL", trimmed)
	if err := query.First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// TouchAPIKey records the last time the profile's API key was used.
func (r *profileRepository) TouchAPIKey(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&models.Profile{}).
		Where("id = ?", id).
		UpdateColumn("api_key_last_used_at", time.Now()).Error
}
