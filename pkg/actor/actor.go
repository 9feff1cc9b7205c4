// Package actor carries the tenant and the acting user of a request through
// a context.
package actor

import (
	"context"
	"regexp"
)

const (
	TenantHeader = "X-Tenant-ID"
	UserHeader   = "X-User"
)

var tenantRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]{0,63}$`)

// ValidTenant reports whether tenant is a usable tenant id: up to 64
// letters, digits, '_', '.' or '-', starting with a letter or digit.
func ValidTenant(tenant string) bool {
	return tenantRegex.MatchString(tenant)
}

type (
	tenantKey struct{}
	userKey   struct{}
)

func WithTenant(ctx context.Context, tenant string) context.Context {
	return context.WithValue(ctx, tenantKey{}, tenant)
}

// Tenant returns the tenant stored in ctx, if any.
func Tenant(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(tenantKey{}).(string)
	return v, ok && v != ""
}

func WithUser(ctx context.Context, user string) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// User returns the acting user stored in ctx, if any.
func User(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(userKey{}).(string)
	return v, ok && v != ""
}
