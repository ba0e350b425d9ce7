package server

import (
	"toolgate/internal/models"
	"toolgate/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateRequest handles POST /api/requests. The requester identity
// comes from the authenticated user, never from the body.
func (s *Server) CreateRequest(c *fiber.Ctx) error {
	var req struct {
		ToolName               string `json:"tool_name"`
		Purpose                string `json:"purpose"`
		Environment            string `json:"environment"`
		Duration               string `json:"duration"`
		Justification          string `json:"justification"`
		AlternativesConsidered string `json:"alternatives_considered"`
		RiskAssessment         string `json:"risk_assessment"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.currentUser(c)
	if err != nil {
		return respondServiceError(c, err)
	}

	request, err := s.requestService.Submit(c.Context(), service.SubmitRequestInput{
		UserID:                 user.ID,
		UserName:               user.Name,
		UserEmail:              user.Email,
		ToolName:               req.ToolName,
		Purpose:                req.Purpose,
		Environment:            req.Environment,
		Duration:               models.RequestDuration(req.Duration),
		Justification:          req.Justification,
		AlternativesConsidered: req.AlternativesConsidered,
		RiskAssessment:         req.RiskAssessment,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(request)
}

// GetMyRequests handles GET /api/requests/me
func (s *Server) GetMyRequests(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	requests, err := s.requestRepo.ListByUser(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(requests)
}

// GetAllRequests handles GET /api/admin/requests. An optional status
// query filters the list.
func (s *Server) GetAllRequests(c *fiber.Ctx) error {
	if status := c.Query("status"); status != "" {
		requests, err := s.requestRepo.ListByStatus(c.Context(), models.RequestStatus(status))
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(requests)
	}

	requests, err := s.requestRepo.List(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(requests)
}

// DecideRequest handles POST /api/admin/requests/:id/decision
func (s *Server) DecideRequest(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Response             string `json:"response"`
		AdminComment         string `json:"admin_comment"`
		SecurityInstructions string `json:"security_instructions"`
		ApprovedEnvironment  string `json:"approved_environment"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	admin, err := s.currentUser(c)
	if err != nil {
		return respondServiceError(c, err)
	}

	request, err := s.requestService.Decide(c.Context(), service.DecideRequestInput{
		RequestID:            id,
		ReviewedBy:           admin.Name,
		Response:             models.RequestStatus(req.Response),
		AdminComment:         req.AdminComment,
		SecurityInstructions: req.SecurityInstructions,
		ApprovedEnvironment:  req.ApprovedEnvironment,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(request)
}
