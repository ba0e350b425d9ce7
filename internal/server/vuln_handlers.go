package server

import (
	"strings"

	"toolgate/internal/cache"
	"toolgate/internal/models"
	"toolgate/internal/vulnscan"

	"github.com/gofiber/fiber/v2"
)

// SearchVulnerabilities handles GET /api/admin/vulnerabilities/search.
// NVD outages degrade to a canned analysis rather than failing the
// request, so this endpoint never returns a 5xx for upstream errors.
func (s *Server) SearchVulnerabilities(c *fiber.Ctx) error {
	term := strings.TrimSpace(c.Query("tool"))
	if term == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Query parameter 'tool' is required"))
	}

	var analysis vulnscan.Analysis
	err := cache.CacheAside(c.Context(), cache.VulnSearchKey(strings.ToLower(term)), &analysis, cache.VulnSearchTTL,
		func() error {
			analysis = *s.scanner.Assess(c.Context(), term)
			return nil
		})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(analysis)
}
