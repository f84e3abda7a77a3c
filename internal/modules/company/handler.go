package company

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Handler exposes company HTTP endpoints.
type Handler struct {
	service    Service
	adminGuard func(http.Handler) http.Handler
}

func NewHandler(service Service, adminGuard func(http.Handler) http.Handler) *Handler {
	return &Handler{service: service, adminGuard: adminGuard}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/companies", func(r chi.Router) {
		r.Get("/{slug}", h.getBySlug) // GET /api/v1/companies/{slug}
		r.With(h.adminGuard).Post("/", h.create)
		r.With(h.adminGuard).Put("/{id}/settings", h.updateSettings)
	})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	c, err := h.service.Create(r.Context(), req)
	if err != nil {
		code := http.StatusInternalServerError
		msg := err.Error()
		if strings.Contains(msg, "required") || strings.Contains(msg, "invalid") {
			code = http.StatusBadRequest
		}
		respond(w, code, map[string]string{"error": msg})
		return
	}
	respond(w, http.StatusCreated, c)
}

func (h *Handler) getBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	c, err := h.service.GetBySlug(r.Context(), slug)
	if err != nil {
		respond(w, http.StatusNotFound, map[string]string{"error": "company not found"})
		return
	}
	respond(w, http.StatusOK, c)
}

func (h *Handler) updateSettings(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	c, err := h.service.UpdateSettings(r.Context(), id, req)
	if err != nil {
		code := http.StatusInternalServerError
		msg := err.Error()
		if strings.Contains(msg, "not found") {
			code = http.StatusNotFound
		} else if strings.Contains(msg, "invalid") || strings.Contains(msg, "required") || strings.Contains(msg, "must not") {
			code = http.StatusBadRequest
		}
		respond(w, code, map[string]string{"error": msg})
		return
	}
	respond(w, http.StatusOK, c)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
