package swagger_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shaikat-CSE/goldennicheims/internal/http/swagger"
)

func TestSwaggerDocsRoute(t *testing.T) {
	r := chi.NewRouter()
	swagger.Register(r)

	get := func(path string) *httptest.ResponseRecorder {
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		return resp
	}

	t.Run("Should serve the UI with the tenant header wired in", func(t *testing.T) {
		resp := get(swagger.DocsURL)

		assert.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, resp.Body.String(), "X-Tenant-ID")
	})

	t.Run("Should serve the YAML contract", func(t *testing.T) {
		resp := get(swagger.SpecYAMLURL)

		assert.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Header().Get("Content-Type"), "application/yaml")
		assert.Contains(t, resp.Body.String(), "openapi: 3.0.3")
	})

	t.Run("Should serve the contract as JSON", func(t *testing.T) {
		resp := get(swagger.SpecJSONURL)
		require.Equal(t, http.StatusOK, resp.Code)

		var doc map[string]any
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &doc))
		assert.Equal(t, "3.0.3", doc["openapi"])
		assert.Contains(t, doc["paths"], "/api/v1/stock")
	})
}
