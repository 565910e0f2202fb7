package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/frahmantamala/tenant-crm/internal"
	"github.com/frahmantamala/tenant-crm/internal/transport"
	"github.com/frahmantamala/tenant-crm/pkg/logger"
)

const (
	StageIdentity   = "identity"
	StagePermission = "permission"
	StageResource   = "resource"
)

// DecisionRecorder counts gate outcomes per stage.
type DecisionRecorder interface {
	ObserveDecision(stage, outcome string)
}

type noopRecorder struct{}

func (noopRecorder) ObserveDecision(string, string) {}

func recorderOrNoop(r DecisionRecorder) DecisionRecorder {
	if r == nil {
		return noopRecorder{}
	}
	return r
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
	metrics DecisionRecorder
}

func NewHandler(svc ServiceAPI, lg *slog.Logger, metrics DecisionRecorder) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
		metrics:     recorderOrNoop(metrics),
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	tokens, err := h.Service.Authenticate(r.Context(), dto)
	if err != nil {
		logger.From(r.Context()).Warn("authentication failed", "error", err)
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var dto RefreshTokenDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	if err := dto.Validate(); err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	tokens, err := h.Service.RefreshTokens(r.Context(), dto.RefreshToken)
	if err != nil {
		logger.From(r.Context()).Warn("token refresh failed", "error", err)
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

// Logout is stateless; the client drops its tokens. The credential is still
// checked so a bad token gets the usual 401.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := h.ExtractTokenFromHeader(r)
	if token == "" {
		h.WriteAppError(w, r, internal.ErrAuthenticationRequired)
		return
	}

	if _, err := h.Service.ValidateAccessToken(token); err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AuthMiddleware is the identity stage: verify the bearer credential, load
// the user, require an active account and attach the principal.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lg := logger.From(r.Context())

		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.reject(w, r, internal.ErrAuthenticationRequired)
			return
		}

		claims, err := h.Service.ValidateAccessToken(token)
		if err != nil {
			lg.Warn("token validation failed", "error", err)
			h.reject(w, r, err)
			return
		}

		uid, err := strconv.ParseInt(claims.UserID, 10, 64)
		if err != nil {
			lg.Warn("failed to parse user id from token claims", "value", claims.UserID, "error", err)
			h.reject(w, r, internal.ErrInvalidCredential)
			return
		}

		principal, err := h.Service.LoadPrincipal(r.Context(), uid)
		if err != nil {
			lg.Warn("auth middleware: principal rejected", "user_id", uid, "error", err)
			h.reject(w, r, err)
			return
		}

		h.metrics.ObserveDecision(StageIdentity, "admitted")

		next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(r.Context(), principal)))
	})
}

func (h *Handler) reject(w http.ResponseWriter, r *http.Request, err error) {
	outcome := "error"
	if appErr, ok := internal.IsAppError(err); ok {
		outcome = string(appErr.Code)
	}
	h.metrics.ObserveDecision(StageIdentity, outcome)
	h.WriteAppError(w, r, err)
}

// principalOrReject is shared by the later stages.
func principalOrReject(ctx context.Context) (*Principal, error) {
	p, ok := PrincipalFromContext(ctx)
	if !ok {
		return nil, internal.ErrAuthenticationRequired
	}
	return p, nil
}
