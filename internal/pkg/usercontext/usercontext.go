package usercontext

import "github.com/gofiber/fiber/v2"

// UserContext represents the authenticated caller of a request
type UserContext struct {
	UserID     string `json:"user_id"`
	AuthMethod string `json:"auth_method"`
}

// IsAuthenticated reports whether a user id was resolved
func (u UserContext) IsAuthenticated() bool {
	return u.UserID != ""
}

// Set stores the user context on the fiber context
func Set(c *fiber.Ctx, u UserContext) {
	c.Locals(KeyUserContext, u)
	c.Locals(KeyUserID, u.UserID)
	c.Locals(KeyAuthMethod, u.AuthMethod)
}

// GetUserContext retrieves the user context from fiber context.
// Returns an anonymous context if none is set
func GetUserContext(c *fiber.Ctx) UserContext {
	if u, ok := c.Locals(KeyUserContext).(UserContext); ok {
		return u
	}
	return UserContext{}
}

// GetUserID returns the current user's ID, or an empty string if anonymous
func GetUserID(c *fiber.Ctx) string {
	return GetUserContext(c).UserID
}
