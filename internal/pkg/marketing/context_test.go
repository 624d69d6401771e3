package marketing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitrinepost/vitrinepost/app/models"
	"gorm.io/gorm"
)

func TestAssembleAppliesDefaultsForMissingRecords(t *testing.T) {
	ctx := Assemble(Records{Product: &models.Product{Name: "Farol LED H7"}})

	assert.Equal(t, Factory{
		Name:            DefaultFactoryName,
		Niche:           "não informado",
		Differentiators: "não informado",
		BrandVoice:      "profissional e confiável",
		TargetAudience:  DefaultTargetAudience,
	}, ctx.Factory)

	assert.Equal(t, DefaultStoreName, ctx.Store.Name)
	assert.Equal(t, DefaultStoreType, ctx.Store.Type)
	assert.Equal(t, NotInformed, ctx.Store.City)
	assert.Equal(t, NotInformed, ctx.Store.InstagramHandle)
	assert.Equal(t, DefaultPrimaryColor, ctx.Store.PrimaryColor)
	assert.False(t, ctx.Store.Watermark)

	assert.Equal(t, "Farol LED H7", ctx.Product.Name)
	assert.Equal(t, DefaultDescription, ctx.Product.Description)
	assert.Equal(t, DefaultCategory, ctx.Product.CategoryName)
}

func TestAssembleIsDeterministic(t *testing.T) {
	r := Records{Product: &models.Product{Name: "X"}}
	assert.Equal(t, Assemble(r), Assemble(r))
}

func TestAssemblePrefersBrandKitOverProfile(t *testing.T) {
	ctx := Assemble(Records{
		Product: &models.Product{Name: "Farol", Category: &models.Category{Name: "Iluminação"}},
		Factory: &models.Factory{Name: "Luz Forte", Niche: "autopeças", BrandVoice: "  "},
		BrandKit: &models.BrandKit{
			StoreName:        "Auto Center Silva",
			InstagramHandle:  "autosilva",
			PrimaryColor:     "#FF0000",
			WatermarkEnabled: true,
		},
		Profile: &models.Profile{Name: "João", StoreName: "Loja do João", City: "Campinas", State: "SP", Phone: "1999"},
	})

	assert.Equal(t, "Luz Forte", ctx.Factory.Name)
	assert.Equal(t, "autopeças", ctx.Factory.Niche)
	assert.Equal(t, DefaultBrandVoice, ctx.Factory.BrandVoice)

	assert.Equal(t, "Auto Center Silva", ctx.Store.Name)
	assert.Equal(t, "Campinas", ctx.Store.City)
	assert.Equal(t, "SP", ctx.Store.State)
	assert.Equal(t, "@autosilva", ctx.Store.InstagramHandle)
	assert.Equal(t, "1999", ctx.Store.WhatsApp)
	assert.Equal(t, "#FF0000", ctx.Store.PrimaryColor)
	assert.Equal(t, DefaultSecondaryColor, ctx.Store.SecondaryColor)
	assert.True(t, ctx.Store.Watermark)

	assert.Equal(t, "Iluminação", ctx.Product.CategoryName)
}

func TestAssembleFallsBackToProfileStoreName(t *testing.T) {
	ctx := Assemble(Records{Profile: &models.Profile{Name: "Maria"}})
	assert.Equal(t, "Maria", ctx.Store.Name)

	ctx = Assemble(Records{Profile: &models.Profile{Name: "Maria", StoreName: "Bazar da Maria"}})
	assert.Equal(t, "Bazar da Maria", ctx.Store.Name)
}

type stubProducts map[string]*models.Product

func (s stubProducts) GetByID(_ context.Context, id string) (*models.Product, error) {
	if p, ok := s[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubFactories map[string]*models.Factory

func (s stubFactories) GetByID(_ context.Context, id string) (*models.Factory, error) {
	if f, ok := s[id]; ok {
		return f, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubKits map[string]*models.BrandKit

func (s stubKits) GetByUserID(_ context.Context, userID string) (*models.BrandKit, error) {
	if k, ok := s[userID]; ok {
		return k, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func TestBuildRequiresProduct(t *testing.T) {
	a := NewAssembler(stubProducts{}, stubFactories{}, stubKits{})

	_, _, err := a.Build(context.Background(), "missing", &models.Profile{ID: "u"})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestBuildDegradesOnDanglingFactoryAndMissingKit(t *testing.T) {
	factoryID := "gone"
	a := NewAssembler(
		stubProducts{"p1": {ID: "p1", Name: "Farol LED H7", FactoryID: &factoryID}},
		stubFactories{},
		stubKits{},
	)

	mc, product, err := a.Build(context.Background(), "p1", &models.Profile{ID: "u"})
	require.NoError(t, err)
	assert.Equal(t, "p1", product.ID)
	assert.Equal(t, DefaultNiche, mc.Factory.Niche)
	assert.Equal(t, DefaultStoreName, mc.Store.Name)
}

func TestBuildUsesFactoryAndKit(t *testing.T) {
	factoryID := "f1"
	a := NewAssembler(
		stubProducts{"p1": {ID: "p1", Name: "Farol", FactoryID: &factoryID}},
		stubFactories{"f1": {ID: "f1", Name: "Luz Forte", Niche: "autopeças"}},
		stubKits{"u": {UserID: "u", StoreName: "Auto Center"}},
	)

	mc, _, err := a.Build(context.Background(), "p1", &models.Profile{ID: "u"})
	require.NoError(t, err)
	assert.Equal(t, "Luz Forte", mc.Factory.Name)
	assert.Equal(t, "Auto Center", mc.Store.Name)
}
