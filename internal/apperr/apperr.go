// Package apperr defines the user-facing error taxonomy and its mapping to
// Connect status codes.
package apperr

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"
)

var (
	// ErrUnauthorized means no user could be resolved from the request.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNoActiveTenant means the user has not selected an organization.
	ErrNoActiveTenant = errors.New("no active tenant")

	// ErrCrossTenantAccess means the target row belongs to another organization.
	ErrCrossTenantAccess = errors.New("cross-tenant access")

	// ErrInsufficientPermission means the caller's role lacks the capability.
	ErrInsufficientPermission = errors.New("insufficient permission")

	// ErrNotMember means the caller does not belong to the active organization.
	ErrNotMember = errors.New("not a member of the active organization")

	// ErrNotFound means the target row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument means the request payload failed validation.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Code returns the Connect code for err.
func Code(err error) connect.Code {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return connect.CodeUnauthenticated
	case errors.Is(err, ErrNoActiveTenant):
		return connect.CodeFailedPrecondition
	case errors.Is(err, ErrCrossTenantAccess),
		errors.Is(err, ErrInsufficientPermission),
		errors.Is(err, ErrNotMember):
		return connect.CodePermissionDenied
	case errors.Is(err, ErrNotFound):
		return connect.CodeNotFound
	case errors.Is(err, ErrInvalidArgument):
		return connect.CodeInvalidArgument
	case errors.Is(err, context.Canceled):
		return connect.CodeCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return connect.CodeDeadlineExceeded
	default:
		return connect.CodeInternal
	}
}

// errInternal is what clients see in place of an unmapped error.
var errInternal = errors.New("internal error")

// ToConnect wraps err in a *connect.Error carrying the mapped code.
// Errors that are already Connect errors pass through unchanged. Unmapped
// errors are logged and reach the client only as a generic internal error.
func ToConnect(err error) error {
	if err == nil {
		return nil
	}
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return err
	}
	code := Code(err)
	if code == connect.CodeInternal {
		return Internal(err)
	}
	return connect.NewError(code, err)
}

// Internal logs err and returns a CodeInternal error without its detail.
func Internal(err error) error {
	slog.Error("Internal error", "error", err)
	return connect.NewError(connect.CodeInternal, errInternal)
}
