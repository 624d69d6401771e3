package apiv1

import (
	"github.com/gofiber/fiber/v2"

	// Delegate to the controllers to keep one response shape
	"github.com/vitrinepost/vitrinepost/app/controllers"
)

// APIServer implements the ServerInterface
type APIServer struct {
	generations *controllers.GenerationController
}

// NewAPIServer creates a new API server instance
func NewAPIServer(generations *controllers.GenerationController) *APIServer {
	return &APIServer{generations: generations}
}

// GetPing handles the ping endpoint
func (s *APIServer) GetPing(c *fiber.Ctx) error {
	return controllers.HandlePing(c)
}

// PostGeneration runs the generation pipeline for the authenticated user.
func (s *APIServer) PostGeneration(c *fiber.Ctx) error {
	return s.generations.HandleCreate(c)
}

func (s *APIServer) ListGenerations(c *fiber.Ctx) error {
	return s.generations.HandleList(c)
}

// GetGeneration and PatchGenerationCaption read the id from route params,
// which the wrapper already checked.
func (s *APIServer) GetGeneration(c *fiber.Ctx, id string) error {
	return s.generations.HandleGet(c)
}

func (s *APIServer) PatchGenerationCaption(c *fiber.Ctx, id string) error {
	return s.generations.HandleUpdateCaption(c)
}

func (s *APIServer) GetUsage(c *fiber.Ctx) error {
	return s.generations.HandleUsage(c)
}

func (s *APIServer) ListTemplates(c *fiber.Ctx) error {
	return s.generations.HandleTemplates(c)
}
