package marketing

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"github.com/vitrinepost/vitrinepost/app/models"
	"gorm.io/gorm"
)

// ErrProductNotFound is returned when the requested product does not exist.
var ErrProductNotFound = errors.New("product not found")

type ProductReader interface {
	GetByID(ctx context.Context, id string) (*models.Product, error)
}

type FactoryReader interface {
	GetByID(ctx context.Context, id string) (*models.Factory, error)
}

type BrandKitReader interface {
	GetByUserID(ctx context.Context, userID string) (*models.BrandKit, error)
}

// Assembler performs the lookups behind Assemble. Only the product is mandatory.
type Assembler struct {
	products  ProductReader
	factories FactoryReader
	brandKits BrandKitReader
}

func NewAssembler(products ProductReader, factories FactoryReader, brandKits BrandKitReader) *Assembler {
	return &Assembler{products: products, factories: factories, brandKits: brandKits}
}

// Build loads the records around productID and reduces them into a Context.
// The profile is passed in because the caller already resolved it.
func (a *Assembler) Build(ctx context.Context, productID string, profile *models.Profile) (Context, *models.Product, error) {
	product, err := a.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Context{}, nil, ErrProductNotFound
		}
		return Context{}, nil, fmt.Errorf("load product %s: %w", productID, err)
	}

	var factory *models.Factory
	if product.FactoryID != nil && *product.FactoryID != "" {
		factory, err = optional(a.factories.GetByID(ctx, *product.FactoryID))
		if err != nil {
			return Context{}, nil, fmt.Errorf("load factory %s: %w", *product.FactoryID, err)
		}
		if factory == nil {
			log.Warnf("[Context] Factory %s of product %s not found, using defaults", *product.FactoryID, product.ID)
		}
	}

	var kit *models.BrandKit
	if profile != nil {
		kit, err = optional(a.brandKits.GetByUserID(ctx, profile.ID))
		if err != nil {
			return Context{}, nil, fmt.Errorf("load brand kit: %w", err)
		}
	}

	return Assemble(Records{Product: product, Factory: factory, BrandKit: kit, Profile: profile}), product, nil
}

// optional turns a not-found lookup into a nil record.
func optional[T any](v *T, err error) (*T, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return v, err
}
