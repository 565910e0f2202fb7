package middleware

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/frahmantamala/tenant-crm/internal"
)

// RecoveryMiddleware turns a panic into the standard 500 envelope. The panic
// value is logged, never echoed to the client.
func RecoveryMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					logger.Error("panic recovered",
						"error", rec,
						"method", r.Method,
						"url", r.URL.String(),
						"stack", string(debug.Stack()))

					appErr := internal.NewInternalError("Internal server error", fmt.Errorf("panic: %v", rec))
					status, body := appErr.ToHTTPResponse()
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(status)
					_ = json.NewEncoder(w).Encode(body)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
