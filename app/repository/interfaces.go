package repository

import (
	"context"

	"github.com/vitrinepost/vitrinepost/app/models"
	"gorm.io/gorm"
)

// ProfileRepository defines the interface for profile-related database operations
type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) error
	Update(ctx context.Context, profile *models.Profile) error
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	GetByAPIKeyHash(ctx context.Context, hash string) (*models.Profile, error)
	TouchAPIKey(ctx context.Context, id string) error
}

// ProductRepository defines the interface for catalog product lookups
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id string) (*models.Product, error)
}

// FactoryRepository defines the interface for factory lookups
type FactoryRepository interface {
	Create(ctx context.Context, factory *models.Factory) error
	GetByID(ctx context.Context, id string) (*models.Factory, error)
}

// BrandKitRepository defines the interface for brand kit lookups
type BrandKitRepository interface {
	Create(ctx context.Context, kit *models.BrandKit) error
	GetByUserID(ctx context.Context, userID string) (*models.BrandKit, error)
}

// TemplateRepository defines the interface for template lookups
type TemplateRepository interface {
	Create(ctx context.Context, tpl *models.Template) error
	GetByID(ctx context.Context, id string) (*models.Template, error)
	ListActive(ctx context.Context, format string) ([]models.Template, error)
}

// GenerationRepository defines the interface for generation records
type GenerationRepository interface {
	Create(ctx context.Context, generation *models.Generation) error
	GetByIDForUser(ctx context.Context, id, userID string) (*models.Generation, error)
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]models.Generation, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	UpdateCaption(ctx context.Context, id, userID, caption string) error
}

// UsageRepository defines the interface for the monthly usage ledger
type UsageRepository interface {
	GetCount(ctx context.Context, userID, month string) (int, error)
	Increment(ctx context.Context, userID, month string) (int, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]models.Usage, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	Profile    ProfileRepository
	Product    ProductRepository
	Factory    FactoryRepository
	BrandKit   BrandKitRepository
	Template   TemplateRepository
	Generation GenerationRepository
	Usage      UsageRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Profile:    NewProfileRepository(db),
		Product:    NewProductRepository(db),
		Factory:    NewFactoryRepository(db),
		BrandKit:   NewBrandKitRepository(db),
		Template:   NewTemplateRepository(db),
		Generation: NewGenerationRepository(db),
		Usage:      NewUsageRepository(db),
	}
}
