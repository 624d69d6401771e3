// Package marketing reduces catalog, brand and profile records into the
// marketing context consumed by the caption and artwork prompts.
package marketing

import (
	"strings"

	"github.com/vitrinepost/vitrinepost/app/models"
)

// Version tags the context and prompt construction recorded with each generation.
const Version = "context-engine-v2"

const (
	DefaultFactoryName     = "Fábrica parceira"
	DefaultNiche           = "não informado"
	DefaultDifferentiators = "não informado"
	DefaultBrandVoice      = "profissional e confiável"
	DefaultTargetAudience  = "lojistas e consumidores finais"

	DefaultStoreName  = "Minha Loja"
	DefaultStoreType  = "loja de varejo"
	DefaultStoreVoice = "próximo e acolhedor"
	NotInformed       = "não informado"

	DefaultDescription    = "sem descrição"
	DefaultCategory       = "não informada"
	DefaultMainBenefit    = "não informado"
	DefaultTechnicalSpecs = "não informadas"

	DefaultPrimaryColor   = "#1F2937"
	DefaultSecondaryColor = "#F59E0B"
)

type Factory struct {
	Name            string `json:"name"`
	Niche           string `json:"niche"`
	Differentiators string `json:"differentiators"`
	BrandVoice      string `json:"brand_voice"`
	TargetAudience  string `json:"target_audience"`
}

type Store struct {
	Name            string `json:"name"`
	Type            string `json:"type"`
	City            string `json:"city"`
	State           string `json:"state"`
	Voice           string `json:"voice"`
	InstagramHandle string `json:"instagram_handle"`
	WhatsApp        string `json:"whatsapp"`
	PrimaryColor    string `json:"primary_color"`
	SecondaryColor  string `json:"secondary_color"`
	Watermark       bool   `json:"watermark"`
}

type Product struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	CategoryName   string `json:"category_name"`
	MainBenefit    string `json:"main_benefit"`
	TechnicalSpecs string `json:"technical_specs"`
}

// Context is built per request and never persisted. Every field is populated.
type Context struct {
	Factory Factory `json:"factory"`
	Store   Store   `json:"store"`
	Product Product `json:"product"`
}

// Records are the raw lookups feeding Assemble. Any of them may be nil.
type Records struct {
	Product  *models.Product
	Factory  *models.Factory
	BrandKit *models.BrandKit
	Profile  *models.Profile
}

// Assemble builds a fully populated Context, substituting documented defaults
// for every missing record or blank field.
func Assemble(r Records) Context {
	return Context{
		Factory: resolveFactory(r.Factory),
		Store:   resolveStore(r.BrandKit, r.Profile),
		Product: resolveProduct(r.Product),
	}
}

func resolveFactory(f *models.Factory) Factory {
	if f == nil {
		f = &models.Factory{}
	}
	return Factory{
		Name:            pick(DefaultFactoryName, f.Name),
		Niche:           pick(DefaultNiche, f.Niche),
		Differentiators: pick(DefaultDifferentiators, f.Differentiators),
		BrandVoice:      pick(DefaultBrandVoice, f.BrandVoice),
		TargetAudience:  pick(DefaultTargetAudience, f.TargetAudience),
	}
}

// resolveStore prefers the brand kit and falls back to the personal profile.
func resolveStore(kit *models.BrandKit, profile *models.Profile) Store {
	if kit == nil {
		kit = &models.BrandKit{}
	}
	if profile == nil {
		profile = &models.Profile{}
	}
	return Store{
		Name:            pick(DefaultStoreName, kit.StoreName, profile.StoreName, profile.Name),
		Type:            pick(DefaultStoreType, kit.StoreType),
		City:            pick(NotInformed, kit.City, profile.City),
		State:           pick(NotInformed, kit.State, profile.State),
		Voice:           pick(DefaultStoreVoice, kit.BrandVoice),
		InstagramHandle: normalizeHandle(pick(NotInformed, kit.InstagramHandle)),
		WhatsApp:        pick(NotInformed, kit.WhatsApp, profile.Phone),
		PrimaryColor:    pick(DefaultPrimaryColor, kit.PrimaryColor),
		SecondaryColor:  pick(DefaultSecondaryColor, kit.SecondaryColor),
		Watermark:       kit.WatermarkEnabled,
	}
}

func resolveProduct(p *models.Product) Product {
	if p == nil {
		p = &models.Product{}
	}
	category := ""
	if p.Category != nil {
		category = p.Category.Name
	}
	return Product{
		Name:           strings.TrimSpace(p.Name),
		Description:    pick(DefaultDescription, p.Description),
		CategoryName:   pick(DefaultCategory, category),
		MainBenefit:    pick(DefaultMainBenefit, p.MainBenefit),
		TechnicalSpecs: pick(DefaultTechnicalSpecs, p.TechnicalSpecs),
	}
}

// pick returns the first non-blank candidate, trimmed, or def.
func pick(def string, candidates ...string) string {
	for _, c := range candidates {
		if v := strings.TrimSpace(c); v != "" {
			return v
		}
	}
	return def
}

func normalizeHandle(h string) string {
	if h == NotInformed || strings.HasPrefix(h, "@") {
		return h
	}
	return "@" + h
}
