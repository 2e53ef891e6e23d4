package middleware

import (
	"context"
	"net/http"

	"github.com/nrednav/cuid2"

	"go.hackfix.me/benchd/web/server/types"
)

type requestIDKey struct{}

// RequestID assigns an ID to every request, stores it in the request context
// and echoes it in the response header. A valid cuid2 received from the client
// is reused, anything else is replaced.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(types.RequestIDHeader)
			if !cuid2.IsCuid(id) {
				id = cuid2.Generate()
			}

			w.Header().Set(types.RequestIDHeader, id)
			ctx := context.WithValue(r.Context(), requestIDKey{}, id)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetRequestID returns the request ID stored in ctx, or an empty string.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
