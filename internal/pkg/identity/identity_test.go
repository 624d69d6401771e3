package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitrinepost/vitrinepost/app/models"
	"github.com/vitrinepost/vitrinepost/app/repository"
	"github.com/vitrinepost/vitrinepost/internal/pkg/database"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.RegisteredClaims, method jwt.SigningMethod, key any) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func validClaims() jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Subject:   "user-1",
		Audience:  jwt.ClaimStrings{"authenticated"},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
}

func TestJWTResolver(t *testing.T) {
	r := NewJWTResolver(Config{JWTSecret: testSecret, JWTAudience: "authenticated"})
	ctx := context.Background()

	id, err := r.Resolve(ctx, signToken(t, validClaims(), jwt.SigningMethodHS256, []byte(testSecret)))
	require.NoError(t, err)
	assert.Equal(t, Identity{UserID: "user-1", Method: MethodJWT}, id)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := r.Resolve(ctx, signToken(t, validClaims(), jwt.SigningMethodHS256, []byte("other")))
		assert.ErrorIs(t, err, ErrInvalidCredential)
	})

	t.Run("expired", func(t *testing.T) {
		c := validClaims()
		c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
		_, err := r.Resolve(ctx, signToken(t, c, jwt.SigningMethodHS256, []byte(testSecret)))
		assert.ErrorIs(t, err, ErrInvalidCredential)
	})

	t.Run("wrong audience", func(t *testing.T) {
		c := validClaims()
		c.Audience = jwt.ClaimStrings{"anon"}
		_, err := r.Resolve(ctx, signToken(t, c, jwt.SigningMethodHS256, []byte(testSecret)))
		assert.ErrorIs(t, err, ErrInvalidCredential)
	})

	t.Run("no subject", func(t *testing.T) {
		c := validClaims()
		c.Subject = ""
		_, err := r.Resolve(ctx, signToken(t, c, jwt.SigningMethodHS256, []byte(testSecret)))
		assert.ErrorIs(t, err, ErrInvalidCredential)
	})

	t.Run("other algorithm", func(t *testing.T) {
		_, err := r.Resolve(ctx, signToken(t, validClaims(), jwt.SigningMethodHS512, []byte(testSecret)))
		assert.ErrorIs(t, err, ErrInvalidCredential)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := r.Resolve(ctx, "not-a-token")
		assert.ErrorIs(t, err, ErrInvalidCredential)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := r.Resolve(ctx, " ")
		assert.ErrorIs(t, err, ErrMissingCredential)
	})
}

func TestJWTResolverWithoutSecretRejects(t *testing.T) {
	r := NewJWTResolver(Config{})
	_, err := r.Resolve(context.Background(), signToken(t, validClaims(), jwt.SigningMethodHS256, []byte(testSecret)))
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestAPIKeyResolver(t *testing.T) {
	db, err := database.OpenMemory()
	require.NoError(t, err)
	profiles := repository.NewProfileRepository(db)
	ctx := context.Background()

	p := &models.Profile{Name: "Loja da Ana"}
	raw, err := p.IssueAPIKey()
	require.NoError(t, err)
	require.NoError(t, profiles.Create(ctx, p))

	r := NewAPIKeyResolver(profiles)
	id, err := r.Resolve(ctx, raw)
	require.NoError(t, err)
	assert.Equal(t, Identity{UserID: p.ID, Method: MethodAPIKey}, id)

	stored, err := profiles.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.APIKeyLastUsedAt)

	_, err = r.Resolve(ctx, "vp_unknown")
	assert.ErrorIs(t, err, ErrInvalidCredential)

	p.RevokeAPIKey()
	require.NoError(t, profiles.Update(ctx, p))
	_, err = r.Resolve(ctx, raw)
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

type stubResolver struct {
	id  Identity
	err error
	got string
}

func (s *stubResolver) Resolve(_ context.Context, token string) (Identity, error) {
	s.got = token
	return s.id, s.err
}

func TestChainRoutesByPrefix(t *testing.T) {
	keys := &stubResolver{id: Identity{UserID: "k", Method: MethodAPIKey}}
	jwts := &stubResolver{id: Identity{UserID: "j", Method: MethodJWT}}
	c := Chain{APIKeys: keys, JWT: jwts}
	ctx := context.Background()

	id, err := c.Resolve(ctx, "vp_abc")
	require.NoError(t, err)
	assert.Equal(t, "k", id.UserID)
	assert.Equal(t, "vp_abc", keys.got)

	id, err = c.Resolve(ctx, "eyJhbGciOi")
	require.NoError(t, err)
	assert.Equal(t, "j", id.UserID)

	_, err = c.Resolve(ctx, "")
	assert.ErrorIs(t, err, ErrMissingCredential)

	_, err = Chain{JWT: jwts}.Resolve(ctx, "vp_abc")
	assert.True(t, errors.Is(err, ErrInvalidCredential))
}
