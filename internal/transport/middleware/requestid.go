package middleware

import (
	"context"
	"net/http"

	"github.com/frahmantamala/tenant-crm/pkg/logger"
	"github.com/go-chi/chi/middleware"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// RequestID accepts an inbound request id or mints one, and makes it
// visible to chi's GetReqID, the request logger and the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(RequestIDHeader)
		if reqID == "" || len(reqID) > 128 {
			reqID = uuid.NewString()
		}

		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, reqID)
		ctx = logger.With(ctx, "request_id", reqID)

		w.Header().Set(RequestIDHeader, reqID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
