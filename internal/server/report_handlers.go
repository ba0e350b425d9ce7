package server

import (
	"toolgate/internal/models"
	"toolgate/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateReport handles POST /api/reports
func (s *Server) CreateReport(c *fiber.Ctx) error {
	var req struct {
		ToolName            string `json:"tool_name"`
		DateOfUse           string `json:"date_of_use"`
		PurposeOfUse        string `json:"purpose_of_use"`
		LocationOfUse       string `json:"location_of_use"`
		StepsDescription    string `json:"steps_description"`
		OutputsResults      string `json:"outputs_results"`
		AdheredToPolicy     bool   `json:"adhered_to_policy"`
		StayedWithinScope   bool   `json:"stayed_within_scope"`
		NoThirdPartySharing bool   `json:"no_third_party_sharing"`
		NoMaliciousUse      bool   `json:"no_malicious_use"`
		Comments            string `json:"comments"`
		ToolRequestID       *uint  `json:"tool_request_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.currentUser(c)
	if err != nil {
		return respondServiceError(c, err)
	}

	report, err := s.reportService.Submit(c.Context(), service.SubmitReportInput{
		UserID:              user.ID,
		UserName:            user.Name,
		UserEmail:           user.Email,
		ToolName:            req.ToolName,
		DateOfUse:           req.DateOfUse,
		PurposeOfUse:        req.PurposeOfUse,
		LocationOfUse:       req.LocationOfUse,
		StepsDescription:    req.StepsDescription,
		OutputsResults:      req.OutputsResults,
		AdheredToPolicy:     req.AdheredToPolicy,
		StayedWithinScope:   req.StayedWithinScope,
		NoThirdPartySharing: req.NoThirdPartySharing,
		NoMaliciousUse:      req.NoMaliciousUse,
		Comments:            req.Comments,
		ToolRequestID:       req.ToolRequestID,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(report)
}

// GetMyReports handles GET /api/reports/me
func (s *Server) GetMyReports(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	reports, err := s.reportService.ListByUser(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(reports)
}

// GetAllReports handles GET /api/admin/reports
func (s *Server) GetAllReports(c *fiber.Ctx) error {
	reports, err := s.reportService.ListAll(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(reports)
}

// ReviewReport handles POST /api/admin/reports/:id/review
func (s *Server) ReviewReport(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Response     string `json:"response"`
		AdminComment string `json:"admin_comment"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	admin, err := s.currentUser(c)
	if err != nil {
		return respondServiceError(c, err)
	}

	report, err := s.reportService.Review(c.Context(), service.ReviewReportInput{
		ReportID:     id,
		ReviewedBy:   admin.Name,
		Response:     req.Response,
		AdminComment: req.AdminComment,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(report)
}
