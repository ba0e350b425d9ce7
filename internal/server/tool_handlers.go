package server

import (
	"time"

	"toolgate/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetTools handles GET /api/tools. Regular users only see the
// approved catalog.
func (s *Server) GetTools(c *fiber.Ctx) error {
	tools, err := s.toolRepo.ListApproved(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(tools)
}

// GetTool handles GET /api/tools/:id
func (s *Server) GetTool(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	tool, err := s.toolRepo.GetByID(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	// Unapproved tools are invisible to non-admins.
	if !tool.IsApproved {
		userID, _ := c.Locals("userID").(uint)
		admin, adminErr := s.isAdminByUserID(c.Context(), userID)
		if adminErr != nil || !admin {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Tool", id))
		}
	}

	return c.JSON(tool)
}

// GetAllTools handles GET /api/admin/tools
func (s *Server) GetAllTools(c *fiber.Ctx) error {
	tools, err := s.toolRepo.List(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(tools)
}

// CreateTool handles POST /api/admin/tools
func (s *Server) CreateTool(c *fiber.Ctx) error {
	var tool models.Tool
	if err := c.BodyParser(&tool); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if tool.Name == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Tool name is required"))
	}
	if tool.SecurityLevel == "" {
		tool.SecurityLevel = models.SecurityLevelMedium
	}
	if tool.Environment == "" {
		tool.Environment = models.EnvironmentVirtual
	}
	if tool.IsApproved {
		now := time.Now().UTC()
		tool.ApprovedAt = &now
	}

	if err := s.toolRepo.Create(c.Context(), &tool); err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(tool)
}

// UpdateTool handles PUT /api/admin/tools/:id. Only fields present in
// the request body are written; absent fields keep their stored value.
func (s *Server) UpdateTool(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Name          *string `json:"name"`
		Description   *string `json:"description"`
		Category      *string `json:"category"`
		Version       *string `json:"version"`
		SecurityLevel *string `json:"security_level"`
		Environment   *string `json:"environment"`
		Documentation *string `json:"documentation"`
		DownloadURL   *string `json:"download_url"`
		WebInterface  *string `json:"web_interface"`
		IsApproved    *bool   `json:"is_approved"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	fields := map[string]any{}
	if req.Name != nil {
		if *req.Name == "" {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Tool name cannot be empty"))
		}
		fields["name"] = *req.Name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Category != nil {
		fields["category"] = *req.Category
	}
	if req.Version != nil {
		fields["version"] = *req.Version
	}
	if req.SecurityLevel != nil {
		fields["security_level"] = *req.SecurityLevel
	}
	if req.Environment != nil {
		fields["environment"] = *req.Environment
	}
	if req.Documentation != nil {
		fields["documentation"] = *req.Documentation
	}
	if req.DownloadURL != nil {
		fields["download_url"] = *req.DownloadURL
	}
	if req.WebInterface != nil {
		fields["web_interface"] = *req.WebInterface
	}
	if req.IsApproved != nil {
		fields["is_approved"] = *req.IsApproved
		if *req.IsApproved {
			fields["approved_at"] = time.Now().UTC()
		}
	}

	if len(fields) == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("No fields to update"))
	}

	if err := s.toolRepo.Update(c.Context(), id, fields); err != nil {
		return respondServiceError(c, err)
	}

	tool, err := s.toolRepo.GetByID(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(tool)
}

// DeleteTool handles DELETE /api/admin/tools/:id
func (s *Server) DeleteTool(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.toolRepo.Delete(c.Context(), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Tool deleted"})
}
