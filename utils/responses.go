package utils

import "github.com/gofiber/fiber/v2"

// ErrorResponse is the uniform error body: a short snake_case code plus
// optional details (validation fields, subprocess stderr, ...).
type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

func Err(c *fiber.Ctx, status int, code string) error {
	return c.Status(status).JSON(ErrorResponse{Error: code})
}

func ErrDetails(c *fiber.Ctx, status int, code string, details interface{}) error {
	return c.Status(status).JSON(ErrorResponse{Error: code, Details: details})
}

func BadRequest(c *fiber.Ctx, code string) error {
	return Err(c, fiber.StatusBadRequest, code)
}

func NotFound(c *fiber.Ctx, code string) error {
	return Err(c, fiber.StatusNotFound, code)
}

func Forbidden(c *fiber.Ctx, code string) error {
	return Err(c, fiber.StatusForbidden, code)
}

func Internal(c *fiber.Ctx) error {
	return Err(c, fiber.StatusInternalServerError, "internal_error")
}
