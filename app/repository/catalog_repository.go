package repository

import (
	"context"

	"github.com/vitrinepost/vitrinepost/app/models"
	"gorm.io/gorm"
)

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository instance
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// GetByID retrieves a product with its category
func (r *productRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Preload("Category").Where("id = ?", id).First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

type factoryRepository struct {
	db *gorm.DB
}

// NewFactoryRepository creates a new factory repository instance
func NewFactoryRepository(db *gorm.DB) FactoryRepository {
	return &factoryRepository{db: db}
}

func (r *factoryRepository) Create(ctx context.Context, factory *models.Factory) error {
	return r.db.WithContext(ctx).Create(factory).Error
}

func (r *factoryRepository) GetByID(ctx context.Context, id string) (*models.Factory, error) {
	var factory models.Factory
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&factory).Error
	if err != nil {
		return nil, err
	}
	return &factory, nil
}

type brandKitRepository struct {
	db *gorm.DB
}

// NewBrandKitRepository creates a new brand kit repository instance
func NewBrandKitRepository(db *gorm.DB) BrandKitRepository {
	return &brandKitRepository{db: db}
}

func (r *brandKitRepository) Create(ctx context.Context, kit *models.BrandKit) error {
	return r.db.WithContext(ctx).Create(kit).Error
}

// GetByUserID retrieves the brand kit owned by a user
func (r *brandKitRepository) GetByUserID(ctx context.Context, userID string) (*models.BrandKit, error) {
	var kit models.BrandKit
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&kit).Error
	if err != nil {
		return nil, err
	}
	return &kit, nil
}

type templateRepository struct {
	db *gorm.DB
}

// NewTemplateRepository creates a new template repository instance
func NewTemplateRepository(db *gorm.DB) TemplateRepository {
	return &templateRepository{db: db}
}

func (r *templateRepository) Create(ctx context.Context, tpl *models.Template) error {
	return r.db.WithContext(ctx).Create(tpl).Error
}

func (r *templateRepository) GetByID(ctx context.Context, id string) (*models.Template, error) {
	var tpl models.Template
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&tpl).Error
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}

// ListActive returns active templates, optionally filtered by format
func (r *templateRepository) ListActive(ctx context.Context, format string) ([]models.Template, error) {
	var templates []models.Template
	q := r.db.WithContext(ctx).Where("is_active = ?", true)
	if format != "" {
		q = q.Where("format = ? OR format = ''", format)
	}
	if err := q.Order("name ASC").Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}
