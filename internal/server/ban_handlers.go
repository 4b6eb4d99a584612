package server

import (
	"context"
	"time"

	"campfire/internal/models"

	"github.com/gofiber/fiber/v2"
)

// BanUser handles POST /api/bans
// @Summary Ban a user
// @Description Admin only. Appends a ban record and redirects back
// @Tags bans
// @Accept json,x-www-form-urlencoded
// @Security BearerAuth
// @Param request body object{user_id=int,desc=string} true "Ban form"
// @Success 302 "Redirect to Referer, or / without one"
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /bans [post]
func (s *Server) BanUser(c *fiber.Ctx) error {
	var req struct {
		UserID uint   `json:"user_id" form:"user_id"`
		Desc   string `json:"desc" form:"desc"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	if _, err := s.banService.Ban(ctx, currentUserID(c), req.UserID, req.Desc); err != nil {
		return respondServiceError(c, err)
	}
	return redirectBack(c)
}

// ListBans handles GET /api/bans
// @Summary List ban records
// @Tags bans
// @Produce json
// @Security BearerAuth
// @Param user_id query int false "Only bans for this user"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {array} models.BannedUser
// @Failure 403 {object} models.ErrorResponse
// @Router /bans [get]
func (s *Server) ListBans(c *fiber.Ctx) error {
	userID := c.QueryInt("user_id", 0)
	if userID < 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid user ID"))
	}
	page := parsePagination(c, 50)

	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	bans, err := s.banService.List(ctx, uint(userID), page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(bans)
}
