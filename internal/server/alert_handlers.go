package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetMyAlerts handles GET /api/alerts/me. Includes broadcast alerts
// addressed to every user.
func (s *Server) GetMyAlerts(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	alerts, err := s.alertService.ListForUser(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(alerts)
}

// MarkAlertRead handles POST /api/alerts/:id/read
func (s *Server) MarkAlertRead(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	userID := c.Locals("userID").(uint)
	if err := s.alertService.MarkRead(c.Context(), userID, id); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Alert marked as read"})
}

// DeleteAlert handles DELETE /api/alerts/:id
func (s *Server) DeleteAlert(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	userID := c.Locals("userID").(uint)
	if err := s.alertService.Delete(c.Context(), userID, id); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Alert deleted"})
}
