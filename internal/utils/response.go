package utils

import "github.com/gofiber/fiber/v2"

// MessageResponse is the body of every status-only response.
type MessageResponse struct {
	Message string `json:"message"`
}

// Send writes payload as JSON with the given status. Every response allows any origin.
func Send(c *fiber.Ctx, status int, payload interface{}) error {
	if status == 0 {
		status = fiber.StatusOK
	}

	c.Set(fiber.HeaderAccessControlAllowOrigin, "*")
	return c.Status(status).JSON(payload)
}

// SendMessage writes a {"message": ...} body with the given status.
func SendMessage(c *fiber.Ctx, status int, message string) error {
	if message == "" {
		message = "success"
	}

	return Send(c, status, MessageResponse{Message: message})
}
