package server

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// validationResult renders {"error": false} for an acceptable value and
// {"error": "<message>"} otherwise. The status is always 200.
func validationResult(c *fiber.Ctx, message string) error {
	if message == "" {
		return c.JSON(fiber.Map{"error": false})
	}
	return c.JSON(fiber.Map{"error": message})
}

// ValidateUsername handles POST /api/validate/username
// @Summary Check a username
// @Description Ajax only. Reports a length problem or an existing (case-insensitive) username
// @Tags validate
// @Accept x-www-form-urlencoded
// @Produce json
// @Param X-Requested-With header string true "XMLHttpRequest"
// @Param username formData string true "Username"
// @Success 200 {object} object{error=string}
// @Router /validate/username [post]
func (s *Server) ValidateUsername(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	msg, err := s.accountService.CheckUsername(ctx, c.FormValue("username"), c.Get(fiber.HeaderAcceptLanguage))
	if err != nil {
		return respondServiceError(c, err)
	}
	return validationResult(c, msg)
}

// ValidateEmail handles POST /api/validate/email
// @Summary Check an email address
// @Description Ajax only. Reports whether the email is already registered
// @Tags validate
// @Accept x-www-form-urlencoded
// @Produce json
// @Param X-Requested-With header string true "XMLHttpRequest"
// @Param email formData string true "Email"
// @Success 200 {object} object{error=string}
// @Router /validate/email [post]
func (s *Server) ValidateEmail(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	msg, err := s.accountService.CheckEmail(ctx, c.FormValue("email"), c.Get(fiber.HeaderAcceptLanguage))
	if err != nil {
		return respondServiceError(c, err)
	}
	return validationResult(c, msg)
}
