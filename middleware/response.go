package middleware

import (
	"edumart/apperrors"

	"github.com/gofiber/fiber/v2"
)

func JsonResponse(c *fiber.Ctx, statusCode int, status bool, message string, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

func ValidationErrorResponse(c *fiber.Ctx, errors map[string]string) error {
	return JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Validation failed!", errors)
}

// ErrorResponse maps a service error to the response envelope using its
// apperrors kind.
func ErrorResponse(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "Something went wrong!"

	switch apperrors.KindOf(err) {
	case apperrors.KindNotFound:
		status = fiber.StatusNotFound
		message = err.Error()
	case apperrors.KindConflict:
		status = fiber.StatusConflict
		message = err.Error()
	case apperrors.KindPolicyViolation:
		status = fiber.StatusUnprocessableEntity
		message = err.Error()
	case apperrors.KindUnauthorized:
		status = fiber.StatusForbidden
		message = err.Error()
	case apperrors.KindValidation:
		status = fiber.StatusBadRequest
		message = err.Error()
	case apperrors.KindExternalProvider:
		status = fiber.StatusBadGateway
		message = "Payment provider error, please try again later!"
	}

	return JsonResponse(c, status, false, message, nil)
}
