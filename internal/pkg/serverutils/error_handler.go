package serverutils

import (
	"errors"

	"design-memory-be/pkg/memory/history"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AppError carries an HTTP status chosen by the service layer.
type AppError struct {
	Code    int
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(code int, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func BadRequest(message string) *AppError {
	return NewAppError(fiber.StatusBadRequest, message)
}

func NotFound(message string) *AppError {
	return NewAppError(fiber.StatusNotFound, message)
}

// StatusFor maps an error returned by a handler to a status and a message
// safe to show to the client.
func StatusFor(err error) (int, string) {
	var appErr *AppError
	var fiberErr *fiber.Error
	var validationErrs validator.ValidationErrors

	switch {
	case errors.As(err, &appErr):
		return appErr.Code, appErr.Message
	case errors.As(err, &fiberErr):
		return fiberErr.Code, fiberErr.Message
	case errors.As(err, &validationErrs):
		return fiber.StatusBadRequest, validationMessage(validationErrs)
	case errors.Is(err, history.ErrProjectNotFound), errors.Is(err, history.ErrVersionNotFound):
		return fiber.StatusNotFound, err.Error()
	case errors.Is(err, history.ErrInvalidRoomType),
		errors.Is(err, history.ErrInvalidEventType),
		errors.Is(err, history.ErrInvalidLinkType):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fiber.StatusConflict, "resource already exists"
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fiber.StatusNotFound, "resource not found"
	default:
		return fiber.StatusInternalServerError, "internal server error"
	}
}

// ErrorHandlerMiddleware renders any error left by the handler chain as an
// ErrorResponse.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		code, message := StatusFor(err)
		return ctx.Status(code).JSON(ErrorResponse(code, message))
	}
}
