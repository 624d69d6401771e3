package controllers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/vitrinepost/vitrinepost/app/models"
	"github.com/vitrinepost/vitrinepost/app/repository"
	"github.com/vitrinepost/vitrinepost/internal/pkg/caption"
	"github.com/vitrinepost/vitrinepost/internal/pkg/generation"
	"github.com/vitrinepost/vitrinepost/internal/pkg/quota"
	"github.com/vitrinepost/vitrinepost/internal/pkg/usercontext"
)

const (
	defaultListLimit   = 20
	maxListLimit       = 100
	usageHistoryMonths = 12
)

// Generator runs the post generation pipeline.
type Generator interface {
	Generate(ctx context.Context, userID string, req generation.Request) (*generation.Result, error)
}

// UsageReader reports the current month usage of a user.
type UsageReader interface {
	Current(ctx context.Context, userID, plan string) (quota.Status, error)
}

// GenerationController serves the generation API for the authenticated user
type GenerationController struct {
	generator   Generator
	generations repository.GenerationRepository
	profiles    repository.ProfileRepository
	templates   repository.TemplateRepository
	history     repository.UsageRepository
	usage       UsageReader
	validate    *validator.Validate
}

// NewGenerationController creates a new generation controller
func NewGenerationController(generator Generator, repos *repository.Repositories, usage UsageReader) *GenerationController {
	return &GenerationController{
		generator:   generator,
		generations: repos.Generation,
		profiles:    repos.Profile,
		templates:   repos.Template,
		history:     repos.Usage,
		usage:       usage,
		validate:    validator.New(),
	}
}

type generationView struct {
	ID           string            `json:"id"`
	ImageURL     string            `json:"image_url"`
	Caption      string            `json:"caption"`
	Captions     []caption.Variant `json:"captions"`
	Format       string            `json:"format"`
	TemplateName *string           `json:"template_name"`
	CreatedAt    string            `json:"created_at"`
}

type usageView struct {
	Count int    `json:"count"`
	Limit int    `json:"limit"`
	Plan  string `json:"plan"`
	Month string `json:"month,omitempty"`
}

type usageMonthView struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

type templateView struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Layout string `json:"layout"`
	Format string `json:"format"`
	Style  string `json:"style"`
}

func newGenerationView(g *models.Generation, captions []caption.Variant, templateName string) generationView {
	v := generationView{
		ID:        g.ID,
		ImageURL:  g.ImageURL,
		Caption:   g.Caption,
		Captions:  captions,
		Format:    g.Format,
		CreatedAt: g.CreatedAt.UTC().Format(time.RFC3339),
	}
	if v.Captions == nil {
		v.Captions = []caption.Variant{}
	}
	if templateName != "" {
		v.TemplateName = &templateName
	}
	return v
}

// viewFromRecord rebuilds the response shape of a stored generation.
func viewFromRecord(g *models.Generation) generationView {
	prov, err := generation.DecodeProvenance(g.FieldsData)
	if err != nil {
		log.Warnf("[Generations] unreadable fields_data on %s: %v", g.ID, err)
	}
	name := ""
	if prov.Template != nil {
		name = prov.Template.Name
	}
	return newGenerationView(g, prov.Captions, name)
}

func errorResponse(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "error": message})
}

func pipelineErrorResponse(c *fiber.Ctx, err error) error {
	e := generation.AsError(err)
	return errorResponse(c, e.Status, e.Message)
}

// HandleCreate runs the pipeline for the caller and returns the new post
func (gc *GenerationController) HandleCreate(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	var req generation.Request
	if err := c.BodyParser(&req); err != nil {
		e := generation.NewError(generation.KindValidation, generation.StageValidatingInput, err)
		log.Infof("[Generations] user=%s malformed body: %v", userID, err)
		return errorResponse(c, e.Status, e.Message)
	}

	res, err := gc.generator.Generate(c.UserContext(), userID, req)
	if err != nil {
		return pipelineErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"generation": newGenerationView(res.Generation, res.Captions, res.TemplateName),
		"usage": usageView{
			Count: res.Usage.Count,
			Limit: res.Usage.Limit,
			Plan:  string(res.Usage.Plan),
		},
	})
}

// HandleList returns the caller's generations, newest first
func (gc *GenerationController) HandleList(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	limit := c.QueryInt("limit", defaultListLimit)
	if limit <= 0 || limit > maxListLimit {
		limit = defaultListLimit
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	ctx := c.UserContext()
	items, err := gc.generations.ListByUser(ctx, userID, offset, limit)
	if err != nil {
		log.Errorf("[Generations] list for %s failed: %v", userID, err)
		return pipelineErrorResponse(c, err)
	}
	total, err := gc.generations.CountByUser(ctx, userID)
	if err != nil {
		log.Errorf("[Generations] count for %s failed: %v", userID, err)
		return pipelineErrorResponse(c, err)
	}

	views := make([]generationView, 0, len(items))
	for i := range items {
		views = append(views, viewFromRecord(&items[i]))
	}
	return c.JSON(fiber.Map{
		"success":     true,
		"generations": views,
		"total":       total,
		"limit":       limit,
		"offset":      offset,
	})
}

// HandleGet returns one generation owned by the caller
func (gc *GenerationController) HandleGet(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	g, err := gc.generations.GetByIDForUser(c.UserContext(), c.Params("id"), userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, fiber.StatusNotFound, "Geração não encontrada")
		}
		log.Errorf("[Generations] get %s failed: %v", c.Params("id"), err)
		return pipelineErrorResponse(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "generation": viewFromRecord(g)})
}

type captionUpdate struct {
	Caption string `json:"caption" validate:"required,max=2200"`
}

// HandleUpdateCaption replaces the chosen caption of a generation. Usage is not affected.
func (gc *GenerationController) HandleUpdateCaption(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	var body captionUpdate
	if err := c.BodyParser(&body); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Dados da requisição inválidos")
	}
	body.Caption = strings.TrimSpace(body.Caption)
	if err := gc.validate.Struct(body); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "A legenda deve ter entre 1 e 2200 caracteres")
	}

	ctx := c.UserContext()
	id := c.Params("id")
	if err := gc.generations.UpdateCaption(ctx, id, userID, body.Caption); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, fiber.StatusNotFound, "Geração não encontrada")
		}
		log.Errorf("[Generations] caption update %s failed: %v", id, err)
		return pipelineErrorResponse(c, err)
	}

	g, err := gc.generations.GetByIDForUser(ctx, id, userID)
	if err != nil {
		return pipelineErrorResponse(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "generation": viewFromRecord(g)})
}

// HandleUsage returns the caller's usage for the current month
func (gc *GenerationController) HandleUsage(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	ctx := c.UserContext()

	profile, err := gc.profiles.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			e := generation.NewError(generation.KindProfileNotFound, generation.StageCheckingQuota, err)
			return errorResponse(c, e.Status, e.Message)
		}
		log.Errorf("[Generations] profile %s lookup failed: %v", userID, err)
		return pipelineErrorResponse(c, err)
	}

	st, err := gc.usage.Current(ctx, userID, profile.Plan)
	if err != nil {
		log.Errorf("[Generations] usage for %s failed: %v", userID, err)
		return pipelineErrorResponse(c, err)
	}
	rows, err := gc.history.ListByUser(ctx, userID, usageHistoryMonths)
	if err != nil {
		log.Errorf("[Generations] usage history for %s failed: %v", userID, err)
		return pipelineErrorResponse(c, err)
	}
	months := make([]usageMonthView, 0, len(rows))
	for _, row := range rows {
		months = append(months, usageMonthView{Month: row.Month, Count: row.Count})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"usage":   usageView{Count: st.Count, Limit: st.Limit, Plan: string(st.Plan), Month: st.Month},
		"months":  months,
	})
}

// HandleTemplates lists the active templates, optionally for one format
func (gc *GenerationController) HandleTemplates(c *fiber.Ctx) error {
	format := strings.ToLower(strings.TrimSpace(c.Query("format")))
	if format != "" && !models.IsValidFormat(format) {
		return errorResponse(c, fiber.StatusBadRequest, "Formato inválido. Use feed ou story")
	}

	items, err := gc.templates.ListActive(c.UserContext(), format)
	if err != nil {
		log.Errorf("[Generations] template list failed: %v", err)
		return pipelineErrorResponse(c, err)
	}
	views := make([]templateView, 0, len(items))
	for _, t := range items {
		views = append(views, templateView{ID: t.ID, Name: t.Name, Layout: t.Layout, Format: t.Format, Style: t.Style})
	}
	return c.JSON(fiber.Map{"success": true, "templates": views})
}

// HandlePing answers the API liveness check
func HandlePing(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true, "message": "pong"})
}
