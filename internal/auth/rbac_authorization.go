package auth

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/tenant-crm/internal"
	"github.com/frahmantamala/tenant-crm/internal/permission"
	"github.com/frahmantamala/tenant-crm/internal/transport"
)

// RBACAuthorization is the coarse stage: does the caller hold the one
// permission a route declares.
type RBACAuthorization struct {
	*transport.BaseHandler
	metrics DecisionRecorder
}

func NewRBACAuthorization(logger *slog.Logger, metrics DecisionRecorder) *RBACAuthorization {
	return &RBACAuthorization{
		BaseHandler: transport.NewBaseHandler(logger),
		metrics:     recorderOrNoop(metrics),
	}
}

func (ra *RBACAuthorization) Check(next http.HandlerFunc, required permission.Name) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := principalOrReject(r.Context())
		if err != nil {
			ra.Logger.WarnContext(r.Context(), "authorization check failed: principal not found in context")
			ra.metrics.ObserveDecision(StagePermission, string(internal.ErrCodeAuthenticationRequired))
			ra.WriteAppError(w, r, err)
			return
		}

		if !p.Has(required) {
			ra.Logger.WarnContext(r.Context(), "access denied: insufficient permissions",
				"user_id", p.User.ID,
				"role", p.User.Role,
				"required_permission", required)
			ra.metrics.ObserveDecision(StagePermission, string(internal.ErrCodeInsufficientPermissions))
			ra.WriteAppError(w, r, internal.ErrInsufficientPermissions.WithDetails(map[string]string{
				"required_permission": string(required),
			}))
			return
		}

		ra.metrics.ObserveDecision(StagePermission, "admitted")
		next.ServeHTTP(w, r)
	}
}

func (ra *RBACAuthorization) Middleware(required permission.Name) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return ra.Check(next.ServeHTTP, required)
	}
}
