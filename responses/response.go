package responses

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/SanathRai33/RaiZen-Server/services"
)

// APIResponse is the envelope every endpoint returns.
type APIResponse struct {
	Status  int        `json:"status"`
	Message string     `json:"message"`
	Result  *fiber.Map `json:"result,omitempty"`
	Error   string     `json:"error,omitempty"`
}

func OK(c *fiber.Ctx, message string, result *fiber.Map) error {
	return c.Status(fiber.StatusOK).JSON(APIResponse{
		Status:  fiber.StatusOK,
		Message: message,
		Result:  result,
	})
}

func Created(c *fiber.Ctx, message string, result *fiber.Map) error {
	return c.Status(fiber.StatusCreated).JSON(APIResponse{
		Status:  fiber.StatusCreated,
		Message: message,
		Result:  result,
	})
}

func BadRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(APIResponse{
		Status:  fiber.StatusBadRequest,
		Message: message,
	})
}

func Unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(APIResponse{
		Status:  fiber.StatusUnauthorized,
		Message: message,
	})
}

// Err maps a service-layer error to its HTTP status. Server errors
// carry the internal detail in the error field.
func Err(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrConflict),
		errors.Is(err, services.ErrInvalidToken):
		return c.Status(fiber.StatusBadRequest).JSON(APIResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
		})
	case errors.Is(err, services.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(APIResponse{
			Status:  fiber.StatusUnauthorized,
			Message: err.Error(),
		})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(APIResponse{
			Status:  fiber.StatusNotFound,
			Message: err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(APIResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Something went wrong",
			Error:   err.Error(),
		})
	}
}
