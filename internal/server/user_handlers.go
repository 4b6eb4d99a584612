package server

import (
	"context"
	"io"
	"time"

	"campfire/internal/models"
	"campfire/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetUserProfile handles GET /api/users/:username
// @Summary Get user profile
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} models.User
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{username} [get]
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	user, err := s.accountService.GetProfile(ctx, c.Params("username"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// ListUsers handles GET /api/users
// @Summary List users
// @Description Returns every user unless limit is given
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {array} models.User
// @Router /users [get]
func (s *Server) ListUsers(c *fiber.Ctx) error {
	limit, offset := 0, 0
	if c.Query("limit") != "" {
		page := parsePagination(c, maxPaginationLimit)
		limit, offset = page.Limit, page.Offset
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	users, err := s.accountService.ListUsers(ctx, limit, offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(users)
}

type updateProfileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Gender    *string `json:"gender"`
	Image     *string `json:"image"`
}

// formField returns nil when the field was not submitted at all.
func formField(c *fiber.Ctx, name string) *string {
	if form, err := c.MultipartForm(); err == nil && form != nil {
		if values, ok := form.Value[name]; ok && len(values) > 0 {
			return &values[0]
		}
		return nil
	}
	if !c.Request().PostArgs().Has(name) {
		return nil
	}
	v := c.FormValue(name)
	return &v
}

func readProfileForm(c *fiber.Ctx) (updateProfileRequest, error) {
	var req updateProfileRequest
	if c.Is("json") {
		err := c.BodyParser(&req)
		return req, err
	}
	req.FirstName = formField(c, "first_name")
	req.LastName = formField(c, "last_name")
	req.Gender = formField(c, "gender")
	req.Image = formField(c, "image")
	return req, nil
}

// uploadedAvatar returns the bytes of the multipart "image" file, or nil when none was sent.
func uploadedAvatar(c *fiber.Ctx) ([]byte, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		return nil, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, models.NewValidationError("Failed to read uploaded file")
	}
	defer func() { _ = f.Close() }()
	return io.ReadAll(f)
}

// UpdateUserProfile handles POST|PUT /api/users/:username
// @Summary Update user profile
// @Description Owner-only. Accepts JSON, urlencoded or multipart with an image file
// @Tags users
// @Accept json,x-www-form-urlencoded,mpfd
// @Produce json
// @Security BearerAuth
// @Param username path string true "Username"
// @Param image formData file false "Avatar image"
// @Success 303 "Redirect to profile"
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{username} [put]
func (s *Server) UpdateUserProfile(c *fiber.Ctx) error {
	username := c.Params("username")
	callerID := currentUserID(c)

	req, err := readProfileForm(c)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), 10*time.Second)
	defer cancel()

	content, err := uploadedAvatar(c)
	if err != nil {
		return respondServiceError(c, err)
	}
	if content != nil {
		// Nothing touches disk until ownership is settled.
		if _, err := s.accountService.AuthorizeOwner(ctx, callerID, username); err != nil {
			return respondServiceError(c, err)
		}
		url, err := s.avatarService.Save(callerID, content)
		if err != nil {
			return respondServiceError(c, err)
		}
		req.Image = &url
	}

	user, err := s.accountService.UpdateProfile(ctx, service.UpdateProfileInput{
		CallerID:  callerID,
		Username:  username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Gender:    req.Gender,
		Image:     req.Image,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Redirect(user.ProfileURL(), fiber.StatusSeeOther)
}

// DeleteUser handles DELETE /api/users/:username (also POST|DELETE /api/users/:username/delete)
// @Summary Delete account
// @Description Owner-only. Ends the session and redirects home
// @Tags users
// @Security BearerAuth
// @Param username path string true "Username"
// @Success 303 "Redirect to /"
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{username} [delete]
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	if err := s.accountService.DeleteAccount(ctx, currentUserID(c), c.Params("username")); err != nil {
		return respondServiceError(c, err)
	}

	s.endSession(c)
	return c.Redirect("/", fiber.StatusSeeOther)
}
