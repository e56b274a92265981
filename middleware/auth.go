package middleware

import (
	"github.com/gofiber/fiber/v2"

	"courseplatform/config"
	"courseplatform/utils"
)

const (
	localUserID = "user_id"
	localEmail  = "email"
)

// AuthMiddleware validates the bearer token once per request and stashes
// the identity in Locals; handlers read it through UserID/Email instead
// of re-parsing the token.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := utils.TokenFromHeader(c)
		if tokenString == "" {
			return utils.Err(c, fiber.StatusUnauthorized, "missing_token")
		}

		userID, email, err := utils.ParseToken(tokenString, cfg)
		if err != nil {
			return utils.Err(c, fiber.StatusUnauthorized, "invalid_token")
		}

		c.Locals(localUserID, userID)
		c.Locals(localEmail, email)
		return c.Next()
	}
}

func UserID(c *fiber.Ctx) uint {
	if id, ok := c.Locals(localUserID).(uint); ok {
		return id
	}
	return 0
}

func Email(c *fiber.Ctx) string {
	if email, ok := c.Locals(localEmail).(string); ok {
		return email
	}
	return ""
}
