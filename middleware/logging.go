package middleware

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"courseplatform/utils"
)

func LoggingMiddleware(logger *log.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		method := c.Method()

		logger.Printf("%s %s%s%s %s %s%d%s %v",
			c.IP(),
			utils.MethodColor(method), method, utils.ColorReset,
			c.Path(),
			utils.StatusColor(status), status, utils.ColorReset,
			time.Since(start),
		)

		return err
	}
}
