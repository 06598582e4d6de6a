package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrInvalidCorpus     = errors.New("invalid corpus")
	ErrInvalidParameters = errors.New("invalid parameters")
	ErrInvalidQuery      = errors.New("invalid query")
	ErrInvalidInput      = errors.New("invalid input")
	ErrTimeout           = errors.New("operation timed out")
)

type AppError struct {
	Err        error
	Message    string
	StatusCode int
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func Newf(sentinel error, statusCode int, format string, args ...any) *AppError {
	return &AppError{
		Err:        sentinel,
		Message:    fmt.Sprintf(format, args...),
		StatusCode: statusCode,
	}
}

// Validation builds a 400-class AppError for caller-supplied input that the
// engine cannot accept.
func Validation(sentinel error, format string, args ...any) *AppError {
	return Newf(sentinel, http.StatusBadRequest, format, args...)
}

func HTTPStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, ErrInvalidCorpus),
		errors.Is(err, ErrInvalidParameters),
		errors.Is(err, ErrInvalidQuery),
		errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrTimeout):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
