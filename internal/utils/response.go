package utils

import "github.com/gofiber/fiber/v2"

// APIResponse is the envelope used by every endpoint except POST /evaluate,
// whose body is the bare evaluation result.
type APIResponse struct {
	Success       bool        `json:"success"`
	Data          interface{} `json:"data,omitempty"`
	Message       string      `json:"message"`
	CorrelationID string      `json:"correlation_id,omitempty"`
}

// SendSuccess sends a 200 envelope with a message.
func SendSuccess(c *fiber.Ctx, message string, data interface{}) error {
	if message == "" {
		message = "success"
	}

	return c.Status(fiber.StatusOK).JSON(APIResponse{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// SendError sends an error envelope with the given status code.
func SendError(c *fiber.Ctx, status int, message string) error {
	if message == "" {
		message = "error"
	}

	response := APIResponse{Success: false, Message: message}
	if id, ok := c.Locals("correlation_id").(string); ok {
		response.CorrelationID = id
	}

	return c.Status(status).JSON(response)
}
