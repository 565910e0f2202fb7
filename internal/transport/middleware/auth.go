package middleware

import (
	"net/http"

	"github.com/frahmantamala/tenant-crm/internal/auth"
	"github.com/frahmantamala/tenant-crm/pkg/logger"
)

// UserContext enriches the request logger with the admitted principal. It
// must run after the identity stage.
func UserContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := auth.PrincipalFromContext(r.Context())
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		fields := []any{"user_id", p.User.ID, "role", p.User.Role}
		if p.User.TenantID != nil {
			fields = append(fields, "tenant_id", *p.User.TenantID)
		}

		ctx := logger.With(r.Context(), fields...)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
