package apperrors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/SscSPs/compliance_transfer_app/internal/apperrors"
	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", apperrors.NewValidationFailedError("bad"), http.StatusBadRequest},
		{"invalid state", apperrors.NewInvalidStateError("not a draft"), http.StatusBadRequest},
		{"unauthorized", apperrors.NewUnauthorizedError("who"), http.StatusUnauthorized},
		{"forbidden", apperrors.NewForbiddenError("no"), http.StatusForbidden},
		{"not found", apperrors.NewNotFoundError("gone"), http.StatusNotFound},
		{"conflict", apperrors.NewConflictError("dup"), http.StatusConflict},
		{"wrapped sentinel", fmt.Errorf("find: %w", apperrors.ErrNotFound), http.StatusNotFound},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"internal wrapping not found", apperrors.NewAppError(http.StatusInternalServerError, "unexpected missing request", apperrors.ErrNotFound), http.StatusInternalServerError},
		{"wrapped internal wrapping not found", fmt.Errorf("approve: %w", apperrors.NewAppError(http.StatusInternalServerError, "unexpected missing request", apperrors.ErrNotFound)), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, apperrors.StatusCode(tc.err))
		})
	}
}

func TestPublicMessage(t *testing.T) {
	t.Run("client error keeps its message", func(t *testing.T) {
		assert.Equal(t, "Transfer request not found.", apperrors.PublicMessage(apperrors.NewNotFoundError("Transfer request not found.")))
	})

	t.Run("internal error hides a wrapped not found", func(t *testing.T) {
		err := apperrors.NewAppError(http.StatusInternalServerError, "unexpected missing request", apperrors.ErrNotFound)
		assert.Equal(t, "Internal server error", apperrors.PublicMessage(err))
	})

	t.Run("internal error hides its cause", func(t *testing.T) {
		err := fmt.Errorf("failed to list: %w", errors.New("connection refused"))
		assert.Equal(t, "Internal server error", apperrors.PublicMessage(err))
	})
}

func TestAppError_IsInternal(t *testing.T) {
	err := apperrors.NewAppError(http.StatusInternalServerError, "db", errors.New("driver"))
	assert.ErrorIs(t, err, apperrors.ErrInternal)
	assert.NotErrorIs(t, apperrors.NewNotFoundError("x"), apperrors.ErrInternal)
}
