package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ridelink/verify-api/internal/pkg/apperror"
)

func TestInvalidArgument(t *testing.T) {
	err := apperror.InvalidArgument("Phone number is required")

	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.Equal(t, apperror.KindInvalidArgument, err.Kind)
	assert.Contains(t, err.Detail, "Phone number")
	assert.Contains(t, err.Type, "invalid-argument")
}

func TestNotFound(t *testing.T) {
	err := apperror.NotFound("verification code")

	assert.Equal(t, http.StatusNotFound, err.Status)
	assert.Equal(t, apperror.KindNotFound, err.Kind)
	assert.Contains(t, err.Detail, "verification code")
}

func TestDeadlineExceeded(t *testing.T) {
	err := apperror.DeadlineExceeded("Verification code has expired")

	assert.Equal(t, http.StatusGone, err.Status)
	assert.Equal(t, apperror.KindDeadlineExceeded, err.Kind)
}

func TestPermissionDenied(t *testing.T) {
	err := apperror.PermissionDenied("Invalid verification code")

	assert.Equal(t, http.StatusForbidden, err.Status)
	assert.Equal(t, apperror.KindPermissionDenied, err.Kind)
}

func TestAlreadyExists(t *testing.T) {
	err := apperror.AlreadyExists("Code has already been used")

	assert.Equal(t, http.StatusConflict, err.Status)
	assert.Equal(t, apperror.KindAlreadyExists, err.Kind)
}

func TestResourceExhausted(t *testing.T) {
	err := apperror.ResourceExhausted("Please wait before requesting another code")

	assert.Equal(t, http.StatusTooManyRequests, err.Status)
	assert.Equal(t, apperror.KindResourceExhausted, err.Kind)
}

func TestInternal(t *testing.T) {
	err := apperror.Internal("Failed to send verification code")

	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.Equal(t, apperror.KindInternal, err.Kind)
}

func TestErrorWithRequestID(t *testing.T) {
	err := apperror.Internal("Failed").WithRequestID("req-123")

	assert.Equal(t, "req-123", err.RequestID)
}

func TestUnwrap(t *testing.T) {
	inner := errors.New("redis connection refused")
	err := apperror.Internal("Storage failure").WithError(inner)

	assert.ErrorIs(t, err, inner)
}

func TestErrorString(t *testing.T) {
	inner := errors.New("db error")
	err := apperror.Internal("Storage failure").WithError(inner)

	assert.Contains(t, err.Error(), "db error")
}

func TestIsKind(t *testing.T) {
	err := apperror.NotFound("verification code")

	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
	assert.False(t, apperror.IsKind(err, apperror.KindInternal))
	assert.False(t, apperror.IsKind(errors.New("plain"), apperror.KindNotFound))
}

func TestIsKind_Wrapped(t *testing.T) {
	err := fmt.Errorf("handling request: %w", apperror.ResourceExhausted("slow down"))

	assert.True(t, apperror.IsKind(err, apperror.KindResourceExhausted))
}
