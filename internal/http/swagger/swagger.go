// Package swagger serves the API contract and a Swagger UI for it.
package swagger

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	apicontract "github.com/Shaikat-CSE/goldennicheims/api-contract"
	"github.com/Shaikat-CSE/goldennicheims/pkg/actor"
)

const (
	DocsURL     = "/docs"
	SpecYAMLURL = "/docs/openapi.yml"
	SpecJSONURL = "/docs/openapi.json"
)

// Register mounts the UI and both renditions of the contract on r. The JSON
// rendition is produced from the validated document on first request.
func Register(r chi.Router) {
	page := []byte(uiPage(SpecYAMLURL, actor.TenantHeader))
	r.Get(DocsURL, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		//nolint:errcheck
		w.Write(page)
	})

	yamlBytes := apicontract.GetSpecBytes()
	r.Get(SpecYAMLURL, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		//nolint:errcheck
		w.Write(yamlBytes)
	})

	specJSON := sync.OnceValues(func() ([]byte, error) {
		doc, err := apicontract.Load(context.Background())
		if err != nil {
			return nil, err
		}
		return doc.MarshalJSON()
	})
	r.Get(SpecJSONURL, func(w http.ResponseWriter, _ *http.Request) {
		b, err := specJSON()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		//nolint:errcheck
		w.Write(b)
	})
}

// uiPage renders Swagger UI pointed at specURL, with a request interceptor
// that forwards the tenant typed into the page's tenant box.
func uiPage(specURL, tenantHeader string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>Stock ledger API</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.29.3/swagger-ui.css" />
</head>
<body>
<div style="padding:8px 16px;font-family:sans-serif">
  <label>Tenant <input id="tenant" placeholder="default" /></label>
</div>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.29.3/swagger-ui-bundle.js" crossorigin></script>
<script>
  window.onload = () => {
    window.ui = SwaggerUIBundle({
      url: '%s',
      dom_id: '#swagger-ui',
      deepLinking: true,
      requestInterceptor: (req) => {
        const tenant = document.getElementById('tenant').value;
        if (tenant) {
          req.headers['%s'] = tenant;
        }
        return req;
      },
    });
  };
</script>
</body>
</html>
`, specURL, tenantHeader)
}
