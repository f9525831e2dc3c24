// Package apperror provides the typed errors returned by the service layer.
// Handlers translate them into the JSON envelope through HTTPStatus.
package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"
)

// Kind is a machine-readable error category
type Kind string

const (
	KindValidation   Kind = "VALIDATION_ERROR"
	KindNotFound     Kind = "NOT_FOUND"
	KindConflict     Kind = "CONFLICT"
	KindInvalidState Kind = "INVALID_STATE"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindInternal     Kind = "INTERNAL_ERROR"
)

const internalMessage = "Error interno del servidor"

// AppError is the error type every service operation returns on failure.
type AppError struct {
	Kind    Kind           `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	Err     error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// HTTPStatus maps the kind to the response status code.
func (e *AppError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation, KindConflict, KindInvalidState:
		return http.StatusUnprocessableEntity
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func NewValidation(format string, args ...any) *AppError {
	return &AppError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NewNotFound(format string, args ...any) *AppError {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func NewConflict(format string, args ...any) *AppError {
	return &AppError{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func NewInvalidState(format string, args ...any) *AppError {
	return &AppError{Kind: KindInvalidState, Message: fmt.Sprintf(format, args...)}
}

func NewUnauthorized(format string, args ...any) *AppError {
	return &AppError{Kind: KindUnauthorized, Message: fmt.Sprintf(format, args...)}
}

// NewInternal hides the cause from clients; it is kept in Err for logging.
func NewInternal(err error) *AppError {
	return &AppError{Kind: KindInternal, Message: internalMessage, Err: err}
}

// As extracts an *AppError from err. Anything else is reported as internal.
func As(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternal(err)
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// FromDB classifies a gorm error. A missing row becomes NotFound with the
// given message, translated constraint violations become Conflict and
// everything else is internal.
func FromDB(err error, notFound string, args ...any) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NewNotFound(notFound, args...)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &AppError{Kind: KindConflict, Message: "Ya existe un registro con esos datos", Err: err}
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return &AppError{Kind: KindConflict, Message: "El registro tiene datos relacionados", Err: err}
	}
	return NewInternal(err)
}
