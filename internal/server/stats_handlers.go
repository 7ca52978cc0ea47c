package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetStats handles GET /api/stats
func (s *Server) GetStats(c *fiber.Ctx) error {
	stats, err := s.postService.Stats(c.Context())
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(stats)
}
