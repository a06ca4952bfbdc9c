package middleware

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/vermakhushbu723/Laundry-Backend/internal/logger"
	"github.com/vermakhushbu723/Laundry-Backend/internal/services"
)

var kindStatus = map[services.ErrorKind]int{
	services.KindValidation:   fiber.StatusBadRequest,
	services.KindConflict:     fiber.StatusBadRequest,
	services.KindExpired:      fiber.StatusBadRequest,
	services.KindMismatch:     fiber.StatusBadRequest,
	services.KindInvalidState: fiber.StatusBadRequest,
	services.KindNotFound:     fiber.StatusNotFound,
	services.KindUnauthorized: fiber.StatusUnauthorized,
	services.KindForbidden:    fiber.StatusForbidden,
}

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// ErrorHandler renders every failed request as a JSON error body.
func ErrorHandler(log logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(errorResponse{
				Message: fiberErr.Message,
				Error:   errorName(fiberErr.Code),
			})
		}

		kind := services.KindOf(err)
		if status, ok := kindStatus[kind]; ok {
			return c.Status(status).JSON(errorResponse{
				Message: services.MessageOf(err),
				Error:   kind.String(),
			})
		}

		log.WithFields(map[string]interface{}{
			"method": c.Method(),
			"path":   c.Path(),
		}).Error(fmt.Sprintf("request failed: %v", err))

		message := "internal server error"
		var svcErr *services.Error
		if errors.As(err, &svcErr) {
			message = svcErr.Message
		}
		return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{
			Message: message,
			Error:   services.KindInternal.String(),
		})
	}
}

func errorName(status int) string {
	switch status {
	case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
		return services.KindValidation.String()
	case fiber.StatusNotFound:
		return services.KindNotFound.String()
	case fiber.StatusUnauthorized:
		return services.KindUnauthorized.String()
	case fiber.StatusForbidden:
		return services.KindForbidden.String()
	case fiber.StatusConflict:
		return services.KindConflict.String()
	default:
		return services.KindInternal.String()
	}
}
