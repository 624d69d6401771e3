package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/vitrinepost/vitrinepost/internal/pkg/generation"
	"github.com/vitrinepost/vitrinepost/internal/pkg/identity"
	"github.com/vitrinepost/vitrinepost/internal/pkg/usercontext"
)

// BearerAuth authenticates API requests with a JWT or a vp_ API key and stores
// the caller on the request. Failures answer 401 before any handler runs.
func BearerAuth(resolver identity.Resolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := Credential(c)
		if token == "" {
			return authFailure(c, generation.KindAuthMissing, identity.ErrMissingCredential)
		}

		id, err := resolver.Resolve(c.UserContext(), token)
		if err != nil {
			switch {
			case errors.Is(err, identity.ErrMissingCredential):
				return authFailure(c, generation.KindAuthMissing, err)
			case errors.Is(err, identity.ErrInvalidCredential):
				return authFailure(c, generation.KindAuthInvalid, err)
			}
			log.Errorf("[Auth] credential lookup failed: %v", err)
			e := generation.NewError(generation.KindInternal, generation.StageAuthenticating, err)
			return c.Status(e.Status).JSON(fiber.Map{"success": false, "error": e.Message})
		}

		usercontext.Set(c, usercontext.UserContext{UserID: id.UserID, AuthMethod: id.Method})
		return c.Next()
	}
}

func authFailure(c *fiber.Ctx, kind generation.Kind, err error) error {
	e := generation.NewError(kind, generation.StageAuthenticating, err)
	log.Infof("[Auth] %s %s rejected: %v", c.Method(), c.Path(), e)
	return c.Status(e.Status).JSON(fiber.Map{"success": false, "error": e.Message})
}

// Credential returns the bearer token, or the X-API-Key header when no bearer
// token is present.
func Credential(c *fiber.Ctx) string {
	auth := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return strings.TrimSpace(c.Get("X-API-Key"))
}
