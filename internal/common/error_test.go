package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError("name", "must not be empty")
	assert.Equal(t, `validation failed on "name": must not be empty`, err.Error())

	wrapped := fmt.Errorf("create: %w", err)
	var ve *ValidationError
	require.True(t, errors.As(wrapped, &ve))
	assert.Equal(t, "name", ve.Field)
}

func TestStorageErrorUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := &StorageError{Op: "put", Key: "abc.jpg", Err: cause}
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "put")
	assert.Contains(t, err.Error(), "abc.jpg")
}

func TestRelationalErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := &RelationalError{Op: "project insert", Err: cause}
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "project insert")
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(&StorageError{Op: "put", Err: errors.New("x")}))
	assert.True(t, IsRetryable(&RelationalError{Op: "q", Err: errors.New("x")}))
	assert.True(t, IsRetryable(fmt.Errorf("wrapped: %w", &RelationalError{Op: "q", Err: errors.New("x")})))

	assert.False(t, IsRetryable(nil))
	assert.False(t, IsRetryable(ErrNotFound))
	assert.False(t, IsRetryable(ErrConflict))
	assert.False(t, IsRetryable(NewValidationError("f", "r")))
	assert.False(t, IsRetryable(errors.New("misc")))
}
