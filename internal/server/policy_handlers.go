package server

import (
	"toolgate/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetPolicies handles GET /api/policies
func (s *Server) GetPolicies(c *fiber.Ctx) error {
	policies, err := s.policyRepo.List(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(policies)
}

// GetPolicy handles GET /api/policies/:id
func (s *Server) GetPolicy(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	policy, err := s.policyRepo.GetByID(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(policy)
}

// CreatePolicy handles POST /api/admin/policies
func (s *Server) CreatePolicy(c *fiber.Ctx) error {
	var policy models.Policy
	if err := c.BodyParser(&policy); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if policy.Title == "" || policy.Description == "" || policy.Content == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Title, description, and content are required"))
	}

	if err := s.policyRepo.Create(c.Context(), &policy); err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(policy)
}

// UpdatePolicy handles PUT /api/admin/policies/:id
func (s *Server) UpdatePolicy(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Content     *string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	fields := map[string]any{}
	if req.Title != nil {
		if *req.Title == "" {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Title cannot be empty"))
		}
		fields["title"] = *req.Title
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Content != nil {
		fields["content"] = *req.Content
	}
	if len(fields) == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("No fields to update"))
	}

	if err := s.policyRepo.Update(c.Context(), id, fields); err != nil {
		return respondServiceError(c, err)
	}

	policy, err := s.policyRepo.GetByID(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(policy)
}

// DeletePolicy handles DELETE /api/admin/policies/:id
func (s *Server) DeletePolicy(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.policyRepo.Delete(c.Context(), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Policy deleted"})
}
