package handlers

import (
	"github.com/fenilmodi00/shadowtrace-backend/shared"
	"github.com/gofiber/fiber/v2"
)

// statusForError maps a service error to the HTTP status returned to clients
func statusForError(err error) int {
	serviceErr, ok := shared.AsServiceError(err)
	if !ok {
		return fiber.StatusInternalServerError
	}

	switch serviceErr.Code {
	case shared.ErrCodeEmptyQuery, shared.ErrCodeInvalidQuery, shared.ErrCodeUnknownCategory,
		shared.ErrCodeHistoryIndexOutOfRange, shared.ErrCodeInvalidResult:
		return fiber.StatusBadRequest
	case shared.ErrCodeSessionNotFound, shared.ErrCodeNoCurrentResult:
		return fiber.StatusNotFound
	case shared.ErrCodeLookupInProgress:
		return fiber.StatusConflict
	case shared.ErrCodeSessionLimitReached:
		return fiber.StatusServiceUnavailable
	case shared.ErrCodeLookupFailed:
		if shared.HasErrorCode(serviceErr.Cause, shared.ErrCodeServiceUnavailable) {
			return fiber.StatusServiceUnavailable
		}
		if shared.HasErrorCode(serviceErr.Cause, shared.ErrCodeLookupTimeout) {
			return fiber.StatusGatewayTimeout
		}
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func errorResponse(c *fiber.Ctx, err error) error {
	body := fiber.Map{
		"success": false,
		"error":   err.Error(),
	}
	if serviceErr, ok := shared.AsServiceError(err); ok {
		body["error"] = serviceErr.Message
		body["code"] = serviceErr.Code
		if serviceErr.Details != nil {
			body["details"] = serviceErr.Details
		}
	}
	return c.Status(statusForError(err)).JSON(body)
}
