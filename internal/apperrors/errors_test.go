package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_UnwrapAndIs(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewAppError(http.StatusInternalServerError, "failed to commit transaction", cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, "failed to commit transaction: connection reset", err.Error())

	wrapped := fmt.Errorf("posting: %w", err)
	assert.ErrorIs(t, wrapped, ErrInternal)
}

func TestAppError_ClientCodeIsNotInternal(t *testing.T) {
	err := NewAppError(http.StatusBadRequest, "bad input", nil)
	assert.False(t, errors.Is(err, ErrInternal))
	assert.Equal(t, "bad input", err.Error())
}

func TestNewNotFoundError(t *testing.T) {
	err := NewNotFoundError("account", "acc-1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "account acc-1")
}
