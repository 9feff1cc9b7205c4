package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/Shaikat-CSE/goldennicheims/internal/http/apierr"
)

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return &apierr.BodyError{Err: err}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func pathID(r *http.Request) (int64, error) {
	var id int64
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return 0, &apierr.ParamError{ParamName: "id", Err: err}
	}
	return id, nil
}

// timeWindow binds the optional RFC 3339 from and to query parameters. A
// missing bound is returned as the zero time.
func timeWindow(r *http.Request) (from, to *time.Time, err error) {
	q := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "from", q, &from); err != nil {
		return nil, nil, &apierr.ParamError{ParamName: "from", Err: err}
	}
	if err := runtime.BindQueryParameter("form", true, false, "to", q, &to); err != nil {
		return nil, nil, &apierr.ParamError{ParamName: "to", Err: err}
	}
	return from, to, nil
}

func queryString(r *http.Request, name string) (string, error) {
	var v *string
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &v); err != nil {
		return "", &apierr.ParamError{ParamName: name, Err: err}
	}
	if v == nil {
		return "", nil
	}
	return *v, nil
}

func queryBool(r *http.Request, name string, fallback bool) (bool, error) {
	var v *bool
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &v); err != nil {
		return false, &apierr.ParamError{ParamName: name, Err: err}
	}
	if v == nil {
		return fallback, nil
	}
	return *v, nil
}
