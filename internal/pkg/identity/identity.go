// Package identity resolves bearer credentials to the authenticated user id.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/golang-jwt/jwt/v5"
	"github.com/vitrinepost/vitrinepost/app/models"
	"github.com/vitrinepost/vitrinepost/internal/pkg/env"
	"gorm.io/gorm"
)

var (
	ErrMissingCredential = errors.New("identity: missing credential")
	ErrInvalidCredential = errors.New("identity: invalid credential")
)

const (
	MethodJWT    = "jwt"
	MethodAPIKey = "api_key"
)

// Identity is the outcome of a successful resolution.
type Identity struct {
	UserID string
	Method string
}

type Resolver interface {
	Resolve(ctx context.Context, token string) (Identity, error)
}

type Config struct {
	JWTSecret   string
	JWTAudience string
}

func LoadConfig() Config {
	return Config{
		JWTSecret:   env.GetEnv("JWT_SECRET", ""),
		JWTAudience: env.GetEnv("JWT_AUDIENCE", ""),
	}
}

// JWTResolver accepts HS256 tokens whose subject is the user id.
type JWTResolver struct {
	secret   []byte
	audience string
	now      func() time.Time
}

func NewJWTResolver(cfg Config) *JWTResolver {
	return &JWTResolver{secret: []byte(cfg.JWTSecret), audience: cfg.JWTAudience, now: time.Now}
}

func (r *JWTResolver) Resolve(_ context.Context, token string) (Identity, error) {
	if strings.TrimSpace(token) == "" {
		return Identity{}, ErrMissingCredential
	}
	if len(r.secret) == 0 {
		return Identity{}, fmt.Errorf("%w: jwt secret not configured", ErrInvalidCredential)
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(r.now),
	}
	if r.audience != "" {
		opts = append(opts, jwt.WithAudience(r.audience))
	}

	claims := jwt.RegisteredClaims{}
	if _, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return r.secret, nil
	}, opts...); err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrInvalidCredential, err)
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return Identity{}, fmt.Errorf("%w: token has no subject", ErrInvalidCredential)
	}
	return Identity{UserID: claims.Subject, Method: MethodJWT}, nil
}

// APIKeyStore is the subset of the profile repository used for key lookup.
type APIKeyStore interface {
	GetByAPIKeyHash(ctx context.Context, hash string) (*models.Profile, error)
	TouchAPIKey(ctx context.Context, id string) error
}

type APIKeyResolver struct {
	store APIKeyStore
}

func NewAPIKeyResolver(store APIKeyStore) *APIKeyResolver {
	return &APIKeyResolver{store: store}
}

func (r *APIKeyResolver) Resolve(ctx context.Context, token string) (Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Identity{}, ErrMissingCredential
	}
	profile, err := r.store.GetByAPIKeyHash(ctx, models.HashAPIKey(token))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Identity{}, fmt.Errorf("%w: unknown api key", ErrInvalidCredential)
		}
		return Identity{}, fmt.Errorf("api key lookup: %w", err)
	}
	if err := r.store.TouchAPIKey(ctx, profile.ID); err != nil {
		log.Warnf("[Identity] failed to update api key usage for %s: %v", profile.ID, err)
	}
	return Identity{UserID: profile.ID, Method: MethodAPIKey}, nil
}

// Chain routes vp_ prefixed tokens to the API key resolver and everything
// else to the JWT resolver. A nil resolver disables that method.
type Chain struct {
	APIKeys Resolver
	JWT     Resolver
}

func (c Chain) Resolve(ctx context.Context, token string) (Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Identity{}, ErrMissingCredential
	}
	if strings.HasPrefix(token, models.APIKeyPrefix) {
		if c.APIKeys == nil {
			return Identity{}, ErrInvalidCredential
		}
		return c.APIKeys.Resolve(ctx, token)
	}
	if c.JWT == nil {
		return Identity{}, ErrInvalidCredential
	}
	return c.JWT.Resolve(ctx, token)
}
