package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/Shaikat-CSE/goldennicheims/internal/http/apierr"
)

// Recoverer turns a panicking handler into a 500 JSON error and logs the
// panic value with its stack. http.ErrAbortHandler is re-raised so the
// connection is dropped as net/http intends.
func Recoverer(log *slog.Logger) func(http.Handler) http.Handler {
	body, err := json.Marshal(apierr.InternalServerErr)
	if err != nil {
		panic(err)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rvr := recover()
				if rvr == nil {
					return
				}
				if e, ok := rvr.(error); ok && errors.Is(e, http.ErrAbortHandler) {
					panic(rvr)
				}

				log.ErrorContext(r.Context(), "panic serving request",
					slog.Any("recover", rvr),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("stack", string(debug.Stack())))

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				//nolint:errcheck
				w.Write(body)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
