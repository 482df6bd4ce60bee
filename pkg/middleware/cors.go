package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

const corsMaxAge = 300

// CORS allows browser clients from origins to call the API. Preflight
// requests are answered here and never reach the handlers.
func CORS(origins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			"X-Student-ID",
			"Idempotency-Key",
			HeaderRequestID,
		},
		ExposedHeaders:   []string{HeaderRequestID, HeaderIdempotentReplay, "Retry-After"},
		AllowCredentials: false,
		MaxAge:           corsMaxAge,
	})
}
