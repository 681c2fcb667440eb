package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind identifies the category of error
type Kind string

const (
	KindInvalidArgument   Kind = "invalid_argument"
	KindNotFound          Kind = "not_found"
	KindDeadlineExceeded  Kind = "deadline_exceeded"
	KindPermissionDenied  Kind = "permission_denied"
	KindAlreadyExists     Kind = "already_exists"
	KindResourceExhausted Kind = "resource_exhausted"
	KindInternal          Kind = "internal"
)

// AppError represents RFC 7807 Problem Details
type AppError struct {
	Type      string `json:"type"`
	Kind      Kind   `json:"kind"`
	Title     string `json:"title"`
	Status    int    `json:"status"`
	Detail    string `json:"detail"`
	Instance  string `json:"instance,omitempty"`
	RequestID string `json:"request_id,omitempty"`
	err       error  // internal error for logging
}

func (e *AppError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.Title, e.err)
	}
	return e.Title
}

func (e *AppError) Unwrap() error {
	return e.err
}

func (e *AppError) WithError(err error) *AppError {
	e.err = err
	return e
}

func (e *AppError) WithRequestID(id string) *AppError {
	e.RequestID = id
	return e
}

func (e *AppError) WithInstance(instance string) *AppError {
	e.Instance = instance
	return e
}

// IsKind reports whether err is an *AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

// Factory functions

func InvalidArgument(detail string) *AppError {
	return &AppError{
		Type:   "https://ridelink.app/errors/invalid-argument",
		Kind:   KindInvalidArgument,
		Title:  "Invalid argument",
		Status: http.StatusBadRequest,
		Detail: detail,
	}
}

func NotFound(resource string) *AppError {
	return &AppError{
		Type:   "https://ridelink.app/errors/not-found",
		Kind:   KindNotFound,
		Title:  "Not found",
		Status: http.StatusNotFound,
		Detail: fmt.Sprintf("%s not found", resource),
	}
}

func DeadlineExceeded(detail string) *AppError {
	return &AppError{
		Type:   "https://ridelink.app/errors/deadline-exceeded",
		Kind:   KindDeadlineExceeded,
		Title:  "Deadline exceeded",
		Status: http.StatusGone,
		Detail: detail,
	}
}

func PermissionDenied(detail string) *AppError {
	return &AppError{
		Type:   "https://ridelink.app/errors/permission-denied",
		Kind:   KindPermissionDenied,
		Title:  "Permission denied",
		Status: http.StatusForbidden,
		Detail: detail,
	}
}

func AlreadyExists(detail string) *AppError {
	return &AppError{
		Type:   "https://ridelink.app/errors/already-exists",
		Kind:   KindAlreadyExists,
		Title:  "Already exists",
		Status: http.StatusConflict,
		Detail: detail,
	}
}

func ResourceExhausted(detail string) *AppError {
	return &AppError{
		Type:   "https://ridelink.app/errors/resource-exhausted",
		Kind:   KindResourceExhausted,
		Title:  "Too many requests",
		Status: http.StatusTooManyRequests,
		Detail: detail,
	}
}

func Internal(detail string) *AppError {
	return &AppError{
		Type:   "https://ridelink.app/errors/internal",
		Kind:   KindInternal,
		Title:  "Internal error",
		Status: http.StatusInternalServerError,
		Detail: detail,
	}
}
