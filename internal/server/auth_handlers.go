package server

import (
	"context"
	"time"

	"campfire/internal/models"
	"campfire/internal/service"

	"github.com/gofiber/fiber/v2"
)

type registerRequest struct {
	Username  string `json:"username" form:"username"`
	Email     string `json:"email" form:"email"`
	Password  string `json:"password" form:"password"`
	FirstName string `json:"first_name" form:"first_name"`
	LastName  string `json:"last_name" form:"last_name"`
	Gender    string `json:"gender" form:"gender"`
}

// Register handles POST /api/auth/register
// @Summary User registration
// @Description Create an account, sign it in and redirect to the new profile
// @Tags auth
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body object{username=string,email=string,password=string,first_name=string,last_name=string,gender=string} true "Registration form"
// @Success 303 "Redirect to profile"
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /auth/register [post]
func (s *Server) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	user, err := s.accountService.Register(ctx, service.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Gender:    req.Gender,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	// Sign in with the credentials that were just submitted.
	user, err = s.accountService.Authenticate(ctx, user.Username, req.Password)
	if err != nil {
		return respondServiceError(c, err)
	}
	if _, err := s.startSession(c, user); err != nil {
		return respondServiceError(c, err)
	}

	return c.Redirect(user.ProfileURL(), fiber.StatusSeeOther)
}

// Login handles POST /api/auth/login
// @Summary User login
// @Description Authenticate by username or email and start a session
// @Tags auth
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body object{username=string,email=string,password=string} true "Login credentials"
// @Success 200 {object} object{token=string,user=models.User}
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /auth/login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username" form:"username"`
		Email    string `json:"email" form:"email"`
		Password string `json:"password" form:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	identifier := req.Username
	if identifier == "" {
		identifier = req.Email
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	user, err := s.accountService.Authenticate(ctx, identifier, req.Password)
	if err != nil {
		return respondServiceError(c, err)
	}

	token, err := s.startSession(c, user)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Refresh handles POST /api/auth/refresh
// @Summary Refresh session
// @Description Revoke the current token and issue a new one
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{token=string}
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/refresh [post]
func (s *Server) Refresh(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	user, err := s.accountService.GetUserByID(ctx, currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	s.endSession(c)
	token, err := s.startSession(c, user)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"token": token})
}

// Logout handles POST /api/auth/logout
// @Summary User logout
// @Tags auth
// @Security BearerAuth
// @Success 200 {object} object{message=string}
// @Router /auth/logout [post]
func (s *Server) Logout(c *fiber.Ctx) error {
	s.endSession(c)
	return c.JSON(fiber.Map{"message": "Logged out"})
}
