// Package generation runs the post generation pipeline: quota gate, context,
// captions, artwork, durable asset and the generation record.
package generation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2/log"
	"github.com/vitrinepost/vitrinepost/app/models"
	"github.com/vitrinepost/vitrinepost/internal/pkg/aiclient"
	"github.com/vitrinepost/vitrinepost/internal/pkg/artwork"
	"github.com/vitrinepost/vitrinepost/internal/pkg/assets"
	"github.com/vitrinepost/vitrinepost/internal/pkg/caption"
	"github.com/vitrinepost/vitrinepost/internal/pkg/marketing"
	"github.com/vitrinepost/vitrinepost/internal/pkg/quota"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Request is the inbound generation request.
type Request struct {
	ProductID    string `json:"product_id" validate:"required,max=64"`
	Format       string `json:"format" validate:"required,oneof=feed story"`
	TemplateID   string `json:"template_id" validate:"omitempty,max=64"`
	Tone         string `json:"tone" validate:"omitempty,max=60"`
	CustomPrompt string `json:"custom_prompt" validate:"omitempty,max=500"`
}

// Result is a successful pipeline run.
type Result struct {
	Generation   *models.Generation
	Captions     []caption.Variant
	TemplateName string
	Usage        quota.Status
}

type ProfileReader interface {
	GetByID(ctx context.Context, id string) (*models.Profile, error)
}

type TemplateReader interface {
	GetByID(ctx context.Context, id string) (*models.Template, error)
}

type ContextBuilder interface {
	Build(ctx context.Context, productID string, profile *models.Profile) (marketing.Context, *models.Product, error)
}

type QuotaChecker interface {
	Check(ctx context.Context, userID, plan string) (quota.Status, error)
}

type CaptionSynthesizer interface {
	Synthesize(ctx context.Context, mc marketing.Context, opts caption.Options) (caption.Result, error)
}

type ArtworkSynthesizer interface {
	Synthesize(ctx context.Context, r artwork.Request) (artwork.Result, error)
}

type AssetPersister interface {
	Persist(ctx context.Context, userID string, img aiclient.GeneratedImage) (assets.Asset, error)
}

// Metrics observes pipeline outcomes.
type Metrics interface {
	Success(ctx context.Context)
	Failure(ctx context.Context, stage, kind string)
	CaptionTier(ctx context.Context, tier string)
}

type nopMetrics struct{}

func (nopMetrics) Success(context.Context)                 {}
func (nopMetrics) Failure(context.Context, string, string) {}
func (nopMetrics) CaptionTier(context.Context, string)     {}

type Deps struct {
	Profiles  ProfileReader
	Templates TemplateReader
	Context   ContextBuilder
	Quota     QuotaChecker
	Captions  CaptionSynthesizer
	Artwork   ArtworkSynthesizer
	Assets    AssetPersister
	Recorder  *Recorder
	Metrics   Metrics

	// Parallel runs caption and image synthesis concurrently.
	Parallel bool
}

type Service struct {
	deps     Deps
	validate *validator.Validate
}

func NewService(deps Deps) *Service {
	if deps.Metrics == nil {
		deps.Metrics = nopMetrics{}
	}
	return &Service{deps: deps, validate: validator.New()}
}

// Generate runs one request to completion or to its first failure. Every
// external call is attempted once. Failures are returned as *Error.
func (s *Service) Generate(ctx context.Context, userID string, req Request) (*Result, error) {
	started := time.Now()
	res, err := s.run(ctx, userID, req)
	if err != nil {
		e := AsError(err)
		log.Errorf("[Pipeline] user=%s product=%s stage=%s kind=%s status=%d: %v",
			userID, req.ProductID, e.Stage, e.Kind, e.Status, e.Err)
		s.deps.Metrics.Failure(ctx, string(e.Stage), string(e.Kind))
		return nil, e
	}
	s.deps.Metrics.Success(ctx)
	log.Infof("[Pipeline] user=%s generation=%s format=%s usage=%d/%d took=%s",
		userID, res.Generation.ID, res.Generation.Format, res.Usage.Count, res.Usage.Limit, time.Since(started).Round(time.Millisecond))
	return res, nil
}

func (s *Service) run(ctx context.Context, userID string, req Request) (*Result, error) {
	req.ProductID = strings.TrimSpace(req.ProductID)
	req.Format = strings.ToLower(strings.TrimSpace(req.Format))
	req.TemplateID = strings.TrimSpace(req.TemplateID)
	if err := s.validate.Struct(req); err != nil {
		return nil, NewError(KindValidation, StageValidatingInput, err).WithMessage(validationMessage(err))
	}

	profile, err := s.deps.Profiles.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewError(KindProfileNotFound, StageValidatingInput, err)
		}
		return nil, NewError(KindInternal, StageValidatingInput, fmt.Errorf("load profile: %w", err))
	}

	status, err := s.deps.Quota.Check(ctx, userID, profile.Plan)
	if err != nil {
		var limitErr *quota.LimitError
		if errors.As(err, &limitErr) {
			return nil, NewError(KindPlanLimitReached, StageCheckingQuota, err).WithMessage(
				fmt.Sprintf("Limite do plano %s atingido: %d gerações por mês", limitErr.Plan, limitErr.Limit))
		}
		return nil, NewError(KindInternal, StageCheckingQuota, err)
	}

	tpl, err := s.loadTemplate(ctx, req.TemplateID)
	if err != nil {
		return nil, NewError(KindInternal, StageBuildingContext, err)
	}

	mc, product, err := s.deps.Context.Build(ctx, req.ProductID, profile)
	if err != nil {
		if errors.Is(err, marketing.ErrProductNotFound) {
			return nil, NewError(KindProductNotFound, StageBuildingContext, err)
		}
		return nil, NewError(KindInternal, StageBuildingContext, err)
	}

	opts := caption.Options{
		ProductName:  mc.Product.Name,
		Format:       req.Format,
		Tone:         req.Tone,
		CustomPrompt: req.CustomPrompt,
	}
	art := artwork.Request{Format: req.Format, Context: mc}
	if tpl != nil {
		opts.TemplateName = tpl.Name
		opts.TemplateStyle = firstNonEmpty(tpl.Style, tpl.Layout)
		art.Layout = tpl.Layout
	}

	captions, image, err := s.synthesize(ctx, mc, opts, art)
	if err != nil {
		return nil, err
	}
	s.deps.Metrics.CaptionTier(ctx, string(captions.Tier))

	asset, err := s.deps.Assets.Persist(ctx, userID, image.Image)
	if err != nil {
		return nil, NewError(KindAssetPersistFailed, StagePersistingAsset, err)
	}

	prov := Provenance{
		Format:         req.Format,
		Tone:           strings.TrimSpace(req.Tone),
		CustomPrompt:   strings.TrimSpace(req.CustomPrompt),
		Captions:       captions.Variants,
		CaptionTier:    captions.Tier,
		ImagePrompt:    image.Prompt,
		RevisedPrompt:  image.Image.RevisedPrompt,
		Models:         ModelInfo{Text: captions.Model, Image: image.Model},
		ContextVersion: marketing.Version,
		Asset:          asset,
	}
	templateID, templateName := "", ""
	if tpl != nil {
		templateID, templateName = tpl.ID, tpl.Name
		prov.Template = &TemplateInfo{ID: tpl.ID, Name: tpl.Name, Layout: tpl.Layout}
	}

	g, count, err := s.deps.Recorder.Record(ctx, RecordInput{
		UserID:        userID,
		ProductID:     product.ID,
		TemplateID:    templateID,
		ImageURL:      asset.URL,
		Caption:       captions.Main,
		Format:        req.Format,
		Provenance:    prov,
		Month:         status.Month,
		PreviousCount: status.Count,
	})
	if err != nil {
		return nil, NewError(KindRecordWriteFailed, StageRecording, err)
	}

	status.Count = count
	return &Result{Generation: g, Captions: captions.Variants, TemplateName: templateName, Usage: status}, nil
}

// loadTemplate resolves an optional template. An unknown id is not an error.
func (s *Service) loadTemplate(ctx context.Context, id string) (*models.Template, error) {
	if id == "" {
		return nil, nil
	}
	tpl, err := s.deps.Templates.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Warnf("[Pipeline] Template %s not found, continuing without template", id)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load template %s: %w", id, err)
	}
	return tpl, nil
}

// synthesize produces captions and artwork, sequentially or concurrently.
// Either failure aborts the run before anything is persisted.
func (s *Service) synthesize(ctx context.Context, mc marketing.Context, opts caption.Options, art artwork.Request) (caption.Result, artwork.Result, error) {
	var (
		captions caption.Result
		image    artwork.Result
	)
	runCaptions := func(ctx context.Context) error {
		var err error
		captions, err = s.deps.Captions.Synthesize(ctx, mc, opts)
		if err != nil {
			return captionError(err)
		}
		return nil
	}
	runImage := func(ctx context.Context) error {
		var err error
		image, err = s.deps.Artwork.Synthesize(ctx, art)
		if err != nil {
			return NewError(KindImageGenerationFailed, StageSynthesizingImage, err)
		}
		return nil
	}

	if !s.deps.Parallel {
		if err := runCaptions(ctx); err != nil {
			return captions, image, err
		}
		if err := runImage(ctx); err != nil {
			return captions, image, err
		}
		return captions, image, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return runCaptions(gctx) })
	g.Go(func() error { return runImage(gctx) })
	if err := g.Wait(); err != nil {
		return captions, image, err
	}
	return captions, image, nil
}

func captionError(err error) error {
	e := NewError(KindCaptionGenerationFailed, StageSynthesizingCaptions, err)
	if errors.Is(err, caption.ErrUnusableResponse) {
		e.WithStatus(http.StatusInternalServerError)
	}
	return e
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return kindMessage[KindValidation]
	}
	fe := verrs[0]
	field := map[string]string{
		"ProductID":    "product_id",
		"Format":       "format",
		"TemplateID":   "template_id",
		"Tone":         "tone",
		"CustomPrompt": "custom_prompt",
	}[fe.Field()]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("O campo %s é obrigatório", field)
	case "oneof":
		return "O campo format deve ser feed ou story"
	case "max":
		return fmt.Sprintf("O campo %s excede o tamanho máximo de %s caracteres", field, fe.Param())
	default:
		return fmt.Sprintf("O campo %s é inválido", field)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
