package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_UnwrapsToSentinel(t *testing.T) {
	err := Validation(ErrInvalidQuery, "query %q has no terms", "  ")
	wrapped := fmt.Errorf("search: %w", err)

	assert.ErrorIs(t, wrapped, ErrInvalidQuery)
	assert.NotErrorIs(t, wrapped, ErrInvalidCorpus)
	assert.Equal(t, `invalid query: query "  " has no terms`, err.Error())

	var appErr *AppError
	assert.True(t, errors.As(wrapped, &appErr))
	assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)
}

func TestHTTPStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"app error status wins", Newf(ErrInvalidInput, http.StatusTeapot, "x"), http.StatusTeapot},
		{"bare corpus sentinel", ErrInvalidCorpus, http.StatusBadRequest},
		{"wrapped parameters sentinel", fmt.Errorf("new: %w", ErrInvalidParameters), http.StatusBadRequest},
		{"bare query sentinel", ErrInvalidQuery, http.StatusBadRequest},
		{"timeout", ErrTimeout, http.StatusServiceUnavailable},
		{"wrapped deadline", fmt.Errorf("%w: rank: %w", ErrTimeout, context.DeadlineExceeded), http.StatusServiceUnavailable},
		{"unknown", context.Canceled, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatusCode(tt.err))
		})
	}
}
