package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/Shaikat-CSE/goldennicheims/pkg/actor"
	"github.com/Shaikat-CSE/goldennicheims/pkg/correlationid"
)

func Cors(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			correlationid.Header,
			actor.TenantHeader,
			actor.UserHeader,
		},
		ExposedHeaders:   []string{correlationid.Header, "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	})
}
