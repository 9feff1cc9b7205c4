package middleware

import (
	"net/http"
	"strings"

	"github.com/Shaikat-CSE/goldennicheims/pkg/actor"
)

// Actor reads the tenant and acting user headers into the request context.
// Missing headers leave the context untouched so defaults apply downstream.
func Actor() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if tenant := strings.TrimSpace(r.Header.Get(actor.TenantHeader)); tenant != "" {
				ctx = actor.WithTenant(ctx, tenant)
			}
			if user := strings.TrimSpace(r.Header.Get(actor.UserHeader)); user != "" {
				ctx = actor.WithUser(ctx, user)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
