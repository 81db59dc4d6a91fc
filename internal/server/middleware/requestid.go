package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// requestIDHeader is the header used to propagate request IDs to and from
// upstream proxies.
const requestIDHeader = "X-Request-Id"

type requestIDKey struct{}

// RequestID returns middleware that assigns a unique ID to every request.
// An incoming X-Request-Id header is honoured so IDs survive proxy hops;
// otherwise a new UUID is generated. The ID is stored on the request context
// and echoed in the response header.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(requestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}

			w.Header().Set(requestIDHeader, id)

			ctx := context.WithValue(r.Context(), requestIDKey{}, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestIDFrom extracts the request ID from the context, returning an empty
// string when none was assigned.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
