package audithandler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"nomina/internal/domain/audit"
	"nomina/internal/transport/http/api"
	"nomina/internal/transport/http/middleware"
)

type Handler struct {
	Audit *audit.Service
}

func NewHandler(auditService *audit.Service) *Handler {
	return &Handler{Audit: auditService}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/audit", h.handleList)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}
	offset := 0
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	events, err := h.Audit.List(ctx, r.URL.Query().Get("entityType"), limit, offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, api.CodeInternal, "failed to list audit events", middleware.GetRequestID(ctx))
		return
	}
	api.Success(w, events, middleware.GetRequestID(ctx))
}
