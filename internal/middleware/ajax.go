package middleware

import "github.com/gofiber/fiber/v2"

// NotAjaxMessage is reported by ajax-only endpoints for plain requests.
const NotAjaxMessage = "This request is not ajax"

// AjaxOnly answers non-XHR requests with {"error": NotAjaxMessage} and a 200 status,
// matching the payload shape of the endpoints it guards.
func AjaxOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !c.XHR() {
			return c.JSON(fiber.Map{"error": NotAjaxMessage})
		}
		return c.Next()
	}
}
