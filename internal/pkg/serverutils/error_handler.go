package serverutils

import (
	"errors"

	"fsnb-matcher-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

type errorBody struct {
	Message   string                 `json:"message"`
	Code      string                 `json:"code"`
	Retryable bool                   `json:"retryable"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

func statusForCode(code apperror.Code) int {
	switch code {
	case apperror.CodeInvalidInput, apperror.CodeEmptyBatch:
		return fiber.StatusBadRequest
	case apperror.CodeUnknownSession, apperror.CodeUnknownRow:
		return fiber.StatusNotFound
	case apperror.CodeSessionClosed, apperror.CodeInconsistentLabel, apperror.CodeStaleSelection:
		return fiber.StatusConflict
	case apperror.CodeIndexUnavailable:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandlerMiddleware converts errors bubbling out of controllers into a
// uniform JSON envelope. Typed domain errors keep their taxonomy code and a
// human-readable reason; anything else becomes an opaque 500.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		if appErr, ok := apperror.As(err); ok {
			return ctx.Status(statusForCode(appErr.Code)).JSON(errorBody{
				Message:   appErr.Message,
				Code:      string(appErr.Code),
				Retryable: appErr.Retryable(),
				Details:   appErr.Details,
			})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(errorBody{
				Message: fiberErr.Message,
				Code:    string(apperror.CodeInternal),
			})
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(errorBody{
			Message: "internal server error",
			Code:    string(apperror.CodeInternal),
		})
	}
}
