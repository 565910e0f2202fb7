package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/frahmantamala/tenant-crm/internal"
	"github.com/frahmantamala/tenant-crm/pkg/logger"
	"github.com/go-chi/chi"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &BaseHandler{Logger: lg}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteAppError maps an error onto the JSON error envelope. Anything that is
// not an *internal.AppError is reported as a generic 500.
func (h *BaseHandler) WriteAppError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := internal.IsAppError(err)
	if !ok {
		appErr = internal.NewInternalError("Internal server error", err)
	}

	lg := h.Logger
	if r != nil {
		lg = logger.From(r.Context())
	}
	if appErr.StatusCode >= http.StatusInternalServerError {
		lg.Error("request failed", "code", appErr.Code, "error", err)
	} else {
		lg.Debug("request rejected", "code", appErr.Code, "status", appErr.StatusCode)
	}

	status, body := appErr.ToHTTPResponse()
	h.WriteJSON(w, status, body)
}

// WriteError writes a plain validation-style error for malformed requests.
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string) {
	appErr := &internal.AppError{
		Type:       internal.ErrorTypeValidation,
		Code:       internal.ErrCodeValidationFailed,
		Message:    message,
		StatusCode: status,
	}
	h.WriteAppError(w, nil, appErr)
}

// DecodeJSON decodes the request body, rejecting unknown fields.
func (h *BaseHandler) DecodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return internal.NewValidationError("invalid request body", internal.ErrCodeValidationFailed).WithCause(err)
	}
	return nil
}

// ExtractTokenFromHeader extracts Bearer token from Authorization header
func (h *BaseHandler) ExtractTokenFromHeader(r *http.Request) string {
	authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(authHeader) < 7 || !strings.EqualFold(authHeader[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(authHeader[7:])
}

// IDParam parses the {name} URL parameter as a positive int64.
func (h *BaseHandler) IDParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, internal.ErrInvalidIdentifier
	}
	return id, nil
}

type Page struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// PageFromRequest reads ?limit= and ?offset= with sane bounds.
func PageFromRequest(r *http.Request) Page {
	p := Page{Limit: defaultPageSize}
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		p.Limit = v
	}
	if p.Limit > maxPageSize {
		p.Limit = maxPageSize
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v > 0 {
		p.Offset = v
	}
	return p
}

type ListResponse struct {
	Data interface{} `json:"data"`
	Page Page        `json:"page"`
}
