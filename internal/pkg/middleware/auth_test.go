package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitrinepost/vitrinepost/internal/pkg/identity"
	"github.com/vitrinepost/vitrinepost/internal/pkg/usercontext"
)

type fakeResolver struct {
	tokens map[string]identity.Identity
	err    error
}

func (f fakeResolver) Resolve(_ context.Context, token string) (identity.Identity, error) {
	if f.err != nil {
		return identity.Identity{}, f.err
	}
	if id, ok := f.tokens[token]; ok {
		return id, nil
	}
	return identity.Identity{}, identity.ErrInvalidCredential
}

func newAuthApp(r identity.Resolver) *fiber.App {
	app := fiber.New()
	app.Get("/me", BearerAuth(r), func(c *fiber.Ctx) error {
		u := usercontext.GetUserContext(c)
		return c.JSON(fiber.Map{"user_id": u.UserID, "method": u.AuthMethod})
	})
	return app
}

func decodeBody(t *testing.T, body io.Reader) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&m))
	return m
}

func TestBearerAuth(t *testing.T) {
	app := newAuthApp(fakeResolver{tokens: map[string]identity.Identity{
		"good":   {UserID: "u-1", Method: identity.MethodJWT},
		"vp_key": {UserID: "u-2", Method: identity.MethodAPIKey},
	}})

	cases := []struct {
		name   string
		header string
		value  string
		status int
		user   string
	}{
		{"bearer jwt", "Authorization", "Bearer good", 200, "u-1"},
		{"lowercase scheme", "Authorization", "bearer good", 200, "u-1"},
		{"api key header", "X-API-Key", "vp_key", 200, "u-2"},
		{"missing", "", "", 401, ""},
		{"empty bearer", "Authorization", "Bearer ", 401, ""},
		{"invalid", "Authorization", "Bearer nope", 401, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if tc.header != "" {
				req.Header.Set(tc.header, tc.value)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
			body := decodeBody(t, resp.Body)
			if tc.status == 200 {
				assert.Equal(t, tc.user, body["user_id"])
				return
			}
			assert.Equal(t, false, body["success"])
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestBearerAuthLookupFailureIsInternal(t *testing.T) {
	app := newAuthApp(fakeResolver{err: errors.New("db down")})
	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer vp_x")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
	assert.NotContains(t, decodeBody(t, resp.Body)["error"], "db down")
}
