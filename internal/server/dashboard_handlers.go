package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetMyDashboard handles GET /api/users/me/dashboard
func (s *Server) GetMyDashboard(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	stats, err := s.dashboardService.UserStats(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(stats)
}

// GetAdminDashboard handles GET /api/admin/dashboard
func (s *Server) GetAdminDashboard(c *fiber.Ctx) error {
	stats, err := s.dashboardService.AdminStats(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(stats)
}

// GetOverdueRequests handles GET /api/admin/overdue. These are approved
// requests whose usage report has not arrived within the grace period.
func (s *Server) GetOverdueRequests(c *fiber.Ctx) error {
	requests, err := s.requestService.ListFlatOverdue(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(requests)
}

// SendOverdueReminder handles POST /api/admin/overdue/:id/remind
func (s *Server) SendOverdueReminder(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.alertService.SendOverdueReminder(c.Context(), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Reminder sent"})
}
