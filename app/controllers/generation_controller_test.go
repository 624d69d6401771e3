package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vitrinepost/vitrinepost/app/models"
	"github.com/vitrinepost/vitrinepost/app/repository"
	"github.com/vitrinepost/vitrinepost/internal/pkg/caption"
	"github.com/vitrinepost/vitrinepost/internal/pkg/database"
	"github.com/vitrinepost/vitrinepost/internal/pkg/entitlements"
	"github.com/vitrinepost/vitrinepost/internal/pkg/generation"
	"github.com/vitrinepost/vitrinepost/internal/pkg/quota"
	"github.com/vitrinepost/vitrinepost/internal/pkg/usercontext"
)

type fakeGenerator struct {
	res *generation.Result
	err error
	got generation.Request
}

func (f *fakeGenerator) Generate(_ context.Context, _ string, req generation.Request) (*generation.Result, error) {
	f.got = req
	return f.res, f.err
}

type testEnv struct {
	app   *fiber.App
	db    *gorm.DB
	repos *repository.Repositories
	gen   *fakeGenerator
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)
	repos := repository.NewRepositories(db)
	require.NoError(t, repos.Profile.Create(context.Background(), &models.Profile{ID: "user-1", Plan: "loja"}))

	gen := &fakeGenerator{}
	gc := NewGenerationController(gen, repos, quota.NewLedger(repos.Usage))

	app := fiber.New()
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		if uid := c.Get("X-Test-User"); uid != "" {
			usercontext.Set(c, usercontext.UserContext{UserID: uid, AuthMethod: "test"})
		}
		return c.Next()
	})
	api.Get("/ping", HandlePing)
	api.Post("/generations", gc.HandleCreate)
	api.Get("/generations", gc.HandleList)
	api.Get("/generations/:id", gc.HandleGet)
	api.Patch("/generations/:id/caption", gc.HandleUpdateCaption)
	api.Get("/usage", gc.HandleUsage)
	api.Get("/templates", gc.HandleTemplates)
	return &testEnv{app: app, db: db, repos: repos, gen: gen}
}

func (e *testEnv) do(t *testing.T, method, path, user, body string) (int, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	resp, err := e.app.Test(req)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func (e *testEnv) seed(t *testing.T, userID, caption string, prov generation.Provenance) *models.Generation {
	t.Helper()
	data, err := prov.JSON()
	require.NoError(t, err)
	g := &models.Generation{UserID: userID, ImageURL: "https://cdn.test/a.png", Caption: caption, Format: "feed", FieldsData: data}
	require.NoError(t, e.repos.Generation.Create(context.Background(), g))
	return g
}

func TestHandlePing(t *testing.T) {
	env := newTestEnv(t)
	status, body := env.do(t, "GET", "/api/v1/ping", "", "")
	assert.Equal(t, 200, status)
	assert.Equal(t, true, body["success"])
}

func TestHandleCreateSuccess(t *testing.T) {
	env := newTestEnv(t)
	variants := []caption.Variant{
		{Style: caption.StyleOferta, Text: "a"},
		{Style: caption.StyleInstitucional, Text: "b"},
		{Style: caption.StyleEscassez, Text: "c"},
	}
	env.gen.res = &generation.Result{
		Generation: &models.Generation{
			ID: "g-1", ImageURL: "https://cdn.test/g-1.png", Caption: "a", Format: "story",
			CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		},
		Captions:     variants,
		TemplateName: "Promo",
		Usage:        quota.Status{Count: 3, Limit: 50, Plan: entitlements.PlanLoja},
	}

	status, body := env.do(t, "POST", "/api/v1/generations", "user-1", `{"product_id":"p-1","format":"story","tone":"divertido"}`)
	require.Equal(t, 200, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "p-1", env.gen.got.ProductID)
	assert.Equal(t, "divertido", env.gen.got.Tone)

	g := body["generation"].(map[string]any)
	assert.Equal(t, "g-1", g["id"])
	assert.Equal(t, "https://cdn.test/g-1.png", g["image_url"])
	assert.Equal(t, "Promo", g["template_name"])
	assert.Equal(t, "2026-03-01T12:00:00Z", g["created_at"])
	assert.Len(t, g["captions"], 3)

	usage := body["usage"].(map[string]any)
	assert.Equal(t, float64(3), usage["count"])
	assert.Equal(t, float64(50), usage["limit"])
	assert.Equal(t, "loja", usage["plan"])
}

func TestHandleCreateMapsPipelineErrors(t *testing.T) {
	env := newTestEnv(t)
	env.gen.err = generation.NewError(generation.KindPlanLimitReached, generation.StageCheckingQuota, quota.ErrPlanLimitReached)

	status, body := env.do(t, "POST", "/api/v1/generations", "user-1", `{"product_id":"p-1","format":"feed"}`)
	assert.Equal(t, 429, status)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Limite mensal do plano atingido", body["error"])
}

func TestHandleCreateMalformedBody(t *testing.T) {
	env := newTestEnv(t)
	status, body := env.do(t, "POST", "/api/v1/generations", "user-1", `{"product_id":`)
	assert.Equal(t, 400, status)
	assert.Equal(t, false, body["success"])
}

func TestHandleListAndGet(t *testing.T) {
	env := newTestEnv(t)
	prov := generation.Provenance{
		Format:   "feed",
		Template: &generation.TemplateInfo{ID: "t-1", Name: "Vitrine", Layout: "promo_highlight"},
		Captions: []caption.Variant{{Style: caption.StyleOferta, Text: "x"}},
	}
	mine := env.seed(t, "user-1", "x", prov)
	other := env.seed(t, "user-2", "y", generation.Provenance{})

	status, body := env.do(t, "GET", "/api/v1/generations?limit=500", "user-1", "")
	require.Equal(t, 200, status)
	assert.Equal(t, float64(1), body["total"])
	assert.Equal(t, float64(defaultListLimit), body["limit"])
	items := body["generations"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, mine.ID, items[0].(map[string]any)["id"])
	assert.Equal(t, "Vitrine", items[0].(map[string]any)["template_name"])

	status, _ = env.do(t, "GET", "/api/v1/generations/"+mine.ID, "user-1", "")
	assert.Equal(t, 200, status)

	status, body = env.do(t, "GET", "/api/v1/generations/"+other.ID, "user-1", "")
	assert.Equal(t, 404, status)
	assert.Equal(t, false, body["success"])
}

func TestHandleUpdateCaption(t *testing.T) {
	env := newTestEnv(t)
	g := env.seed(t, "user-1", "old", generation.Provenance{})

	status, body := env.do(t, "PATCH", "/api/v1/generations/"+g.ID+"/caption", "user-1", `{"caption":"  nova legenda  "}`)
	require.Equal(t, 200, status)
	assert.Equal(t, "nova legenda", body["generation"].(map[string]any)["caption"])

	status, _ = env.do(t, "PATCH", "/api/v1/generations/"+g.ID+"/caption", "user-1", `{"caption":"   "}`)
	assert.Equal(t, 400, status)

	long := strings.Repeat("é", 2201)
	status, _ = env.do(t, "PATCH", "/api/v1/generations/"+g.ID+"/caption", "user-1", `{"caption":"`+long+`"}`)
	assert.Equal(t, 400, status)

	status, _ = env.do(t, "PATCH", "/api/v1/generations/"+g.ID+"/caption", "user-2", `{"caption":"hijack"}`)
	assert.Equal(t, 404, status)

	n, err := env.repos.Usage.GetCount(context.Background(), "user-1", quota.MonthKey(time.Now()))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestHandleUsage(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.repos.Usage.Increment(context.Background(), "user-1", quota.MonthKey(time.Now()))
	require.NoError(t, err)

	status, body := env.do(t, "GET", "/api/v1/usage", "user-1", "")
	require.Equal(t, 200, status)
	usage := body["usage"].(map[string]any)
	assert.Equal(t, float64(1), usage["count"])
	assert.Equal(t, float64(50), usage["limit"])
	assert.Equal(t, "loja", usage["plan"])
	assert.Equal(t, quota.MonthKey(time.Now()), usage["month"])

	status, _ = env.do(t, "GET", "/api/v1/usage", "nobody", "")
	assert.Equal(t, 404, status)
}

func TestHandleUsageIncludesMonthlyHistory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	current := quota.MonthKey(time.Now())
	for _, month := range []string{"2025-01", "2025-01", current} {
		_, err := env.repos.Usage.Increment(ctx, "user-1", month)
		require.NoError(t, err)
	}
	_, err := env.repos.Usage.Increment(ctx, "user-2", current)
	require.NoError(t, err)

	status, body := env.do(t, "GET", "/api/v1/usage", "user-1", "")
	require.Equal(t, 200, status)
	months := body["months"].([]any)
	require.Len(t, months, 2)
	assert.Equal(t, map[string]any{"month": current, "count": float64(1)}, months[0])
	assert.Equal(t, map[string]any{"month": "2025-01", "count": float64(2)}, months[1])
}

func TestHandleTemplates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	for _, tpl := range []*models.Template{
		{Name: "Vitrine", Layout: "promo_highlight", Format: "feed"},
		{Name: "Stories", Layout: "full_bleed", Format: "story"},
		{Name: "Coringa", Layout: "minimal"},
		{Name: "Antigo", Layout: "minimal", Format: "feed"},
	} {
		require.NoError(t, env.repos.Template.Create(ctx, tpl))
	}
	require.NoError(t, env.db.Model(&models.Template{}).Where("name = ?", "Antigo").Update("is_active", false).Error)

	names := func(body map[string]any) []string {
		var out []string
		for _, item := range body["templates"].([]any) {
			out = append(out, item.(map[string]any)["name"].(string))
		}
		return out
	}

	status, body := env.do(t, "GET", "/api/v1/templates", "user-1", "")
	require.Equal(t, 200, status)
	assert.Equal(t, []string{"Coringa", "Stories", "Vitrine"}, names(body))

	status, body = env.do(t, "GET", "/api/v1/templates?format=FEED", "user-1", "")
	require.Equal(t, 200, status)
	assert.Equal(t, []string{"Coringa", "Vitrine"}, names(body))

	status, body = env.do(t, "GET", "/api/v1/templates?format=reel", "user-1", "")
	assert.Equal(t, 400, status)
	assert.Equal(t, false, body["success"])
}
