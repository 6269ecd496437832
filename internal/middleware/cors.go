package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS allows the frontend origins to call the API with credentials. The
// session cookie is only sent cross-origin when AllowCredentials is set, and
// browsers reject a wildcard origin in that case, so origins are listed.
func CORS(origins []string) func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           600,
	}).Handler
}
