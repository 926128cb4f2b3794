package middleware

import (
	"context"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/edvin/mongoadmin/internal/platform"
)

const maxRequestIDLength = 64

// RequestID keeps a caller supplied X-Request-Id or assigns a UUID, stores it
// under chi's request id key and echoes it on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(chimw.RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLength {
			id = platform.NewID()
		}
		w.Header().Set(chimw.RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), chimw.RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
