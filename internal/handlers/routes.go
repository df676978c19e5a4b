package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// RegisterRoutes registers all API operations.
func RegisterRoutes(api huma.API, urlHandler *URLHandler, healthHandler *HealthHandler) {
	huma.Register(api, huma.Operation{
		Method:      http.MethodPost,
		Path:        "/api/shorten",
		Summary:     "Shorten a batch of URLs",
		Description: "Creates shortened URLs for up to five submissions at once. Batches are all-or-nothing: any invalid item rejects the whole batch.",
		Tags:        []string{"URLs"},
	}, urlHandler.ShortenBatch)

	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/api/urls",
		Summary:     "List all records",
		Description: "Returns the full record set with click history for the statistics view.",
		Tags:        []string{"URLs"},
	}, urlHandler.ListURLs)

	huma.Register(api, huma.Operation{
		Method:      http.MethodDelete,
		Path:        "/api/urls/{id}",
		Summary:     "Delete a record",
		Description: "Removes a record and its click history.",
		Tags:        []string{"URLs"},
	}, urlHandler.DeleteURL)

	huma.Register(api, huma.Operation{
		Method:  http.MethodGet,
		Path:    "/health",
		Summary: "Health check",
		Tags:    []string{"Health"},
	}, healthHandler.Check)

	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/{code}",
		Summary:     "Redirect to original URL",
		Description: "Resolves the short code: redirects when active, 410 when expired, 404 when unknown. The click is recorded before the redirect is emitted.",
		Tags:        []string{"URLs"},
	}, urlHandler.Redirect)
}
