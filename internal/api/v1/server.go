package apiv1

import "github.com/gofiber/fiber/v2"

// ServerInterface lists the operations of public/docs/v1/openapi.yml
type ServerInterface interface {
	// (GET /ping)
	GetPing(c *fiber.Ctx) error
	// (POST /generations)
	PostGeneration(c *fiber.Ctx) error
	// (GET /generations)
	ListGenerations(c *fiber.Ctx) error
	// (GET /generations/{id})
	GetGeneration(c *fiber.Ctx, id string) error
	// (PATCH /generations/{id}/caption)
	PatchGenerationCaption(c *fiber.Ctx, id string) error
	// (GET /usage)
	GetUsage(c *fiber.Ctx) error
	// (GET /templates)
	ListTemplates(c *fiber.Ctx) error
}

// ServerInterfaceWrapper converts path parameters before calling the server
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func (w *ServerInterfaceWrapper) GetGeneration(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Parâmetro id ausente"})
	}
	return w.Handler.GetGeneration(c, id)
}

func (w *ServerInterfaceWrapper) PatchGenerationCaption(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Parâmetro id ausente"})
	}
	return w.Handler.PatchGenerationCaption(c, id)
}

// RegisterHandlers mounts the v1 operations on router. Everything but /ping
// runs behind auth.
func RegisterHandlers(router fiber.Router, si ServerInterface, auth fiber.Handler) {
	w := &ServerInterfaceWrapper{Handler: si}

	router.Get("/ping", si.GetPing)

	router.Post("/generations", auth, si.PostGeneration)
	router.Get("/generations", auth, si.ListGenerations)
	router.Get("/generations/:id", auth, w.GetGeneration)
	router.Patch("/generations/:id/caption", auth, w.PatchGenerationCaption)
	router.Get("/usage", auth, si.GetUsage)
	router.Get("/templates", auth, si.ListTemplates)
}
