package server

import (
	"context"
	"strconv"
	"strings"
	"time"

	"campfire/internal/models"

	"github.com/gofiber/fiber/v2"
)

// followOwnerID reads the camp owner from the follow form. Fiber's form
// decoder treats dots as nesting, so the dotted name is read directly.
func followOwnerID(c *fiber.Ctx) (uint, bool) {
	raw := c.FormValue("campowner.id")
	if raw == "" {
		raw = c.FormValue("campowner_id")
	}
	if raw == "" && c.Is("json") {
		var body struct {
			CampOwnerID uint `json:"campowner_id"`
		}
		if err := c.BodyParser(&body); err == nil && body.CampOwnerID > 0 {
			return body.CampOwnerID, true
		}
	}
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// ToggleFollow handles POST /api/camps/follow
// @Summary Follow or unfollow a camp owner
// @Description Flips the caller's follow state and redirects back to the referring page
// @Tags camps
// @Accept x-www-form-urlencoded
// @Security BearerAuth
// @Param campowner.id formData int true "Camp owner user ID"
// @Success 302 "Redirect to Referer, or / without one"
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /camps/follow [post]
func (s *Server) ToggleFollow(c *fiber.Ctx) error {
	ownerID, ok := followOwnerID(c)
	if !ok {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid camp owner ID"))
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	if _, err := s.followService.Toggle(ctx, currentUserID(c), ownerID); err != nil {
		return respondServiceError(c, err)
	}
	return redirectBack(c)
}

// CreateCamp handles POST /api/camps
// @Summary Create camp profile
// @Description Creates the caller's camp profile (one per owner)
// @Tags camps
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Security BearerAuth
// @Param request body object{name=string,description=string} true "Camp details"
// @Success 201 {object} models.CampProfile
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /camps [post]
func (s *Server) CreateCamp(c *fiber.Ctx) error {
	var req struct {
		Name        string `json:"name" form:"name"`
		Description string `json:"description" form:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	camp, err := s.followService.CreateCamp(ctx, currentUserID(c), req.Name, req.Description)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(camp)
}

// GetCamp handles GET /api/camps/:ownerId
// @Summary Get camp profile
// @Tags camps
// @Produce json
// @Param ownerId path int true "Owner user ID"
// @Success 200 {object} models.CampProfile
// @Failure 404 {object} models.ErrorResponse
// @Router /camps/{ownerId} [get]
func (s *Server) GetCamp(c *fiber.Ctx) error {
	ownerID, err := s.parseID(c, "ownerId")
	if err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	camp, err := s.followService.GetCamp(ctx, ownerID, s.optionalAuth(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(camp)
}

// GetCampFollowers handles GET /api/camps/:ownerId/followers
// @Summary List camp followers
// @Tags camps
// @Produce json
// @Security BearerAuth
// @Param ownerId path int true "Owner user ID"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {array} models.User
// @Failure 404 {object} models.ErrorResponse
// @Router /camps/{ownerId}/followers [get]
func (s *Server) GetCampFollowers(c *fiber.Ctx) error {
	ownerID, err := s.parseID(c, "ownerId")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 20)

	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	users, err := s.followService.ListFollowers(ctx, ownerID, page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(users)
}
