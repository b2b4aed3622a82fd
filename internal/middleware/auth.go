package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/akash-limitlessglobaltechnologies/landx/internal/utils"
)

const phoneKey = "phoneNumber"

// RequireAuth validates the bearer session token and stores its phone number
// claim in the request locals. Token verification is stateless, so this never
// touches the database.
func RequireAuth(tokens *utils.TokenManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "No token provided, authorization denied."})
		}
		phone, err := tokens.ParseSession(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Token is not valid."})
		}
		c.Locals(phoneKey, phone)
		return c.Next()
	}
}

// Phone returns the authenticated caller's phone number set by RequireAuth.
func Phone(c *fiber.Ctx) string {
	phone, _ := c.Locals(phoneKey).(string)
	return phone
}
