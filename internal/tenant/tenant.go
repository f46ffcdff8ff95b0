// Package tenant carries the resolved caller identity through a request.
//
// A Context is built once per request by the transport interceptor and passed
// explicitly to guard.New. Nothing downstream looks up the active tenant from
// session state on its own.
package tenant

import (
	"context"
	"net/http"
)

// SystemUserID identifies work done by the server itself, such as loading
// snapshots for live subscribers.
const SystemUserID = "system"

// Context is the (user, active tenant) pair a request operates under.
type Context struct {
	UserID   string
	TenantID string
}

// System returns a Context for server-initiated reads of tenantID.
func System(tenantID string) Context {
	return Context{UserID: SystemUserID, TenantID: tenantID}
}

// IsSystem reports whether c was built by System.
func (c Context) IsSystem() bool {
	return c.UserID == SystemUserID
}

// Resolver turns inbound request headers into a Context.
// Implementations return an error only when no user can be identified;
// a user without an active tenant yields a Context with an empty TenantID.
type Resolver interface {
	Resolve(header http.Header) (Context, error)
}

type contextKey struct{}

// WithContext returns ctx carrying tc.
func WithContext(ctx context.Context, tc Context) context.Context {
	return context.WithValue(ctx, contextKey{}, tc)
}

// FromContext extracts the Context stored by WithContext.
func FromContext(ctx context.Context) (Context, bool) {
	tc, ok := ctx.Value(contextKey{}).(Context)
	return tc, ok
}
