package coupon

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Handler exposes merchant coupon management endpoints.
type Handler struct {
	service    Service
	adminGuard func(http.Handler) http.Handler
}

func NewHandler(service Service, adminGuard func(http.Handler) http.Handler) *Handler {
	return &Handler{service: service, adminGuard: adminGuard}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/coupons", func(r chi.Router) {
		r.Use(h.adminGuard)
		r.Post("/", h.create)
		r.Put("/{id}", h.update)
		r.Get("/company/{company_id}", h.listByCompany)
		r.Get("/company/{company_id}/{code}", h.getByCode)
	})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateCouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	c, err := h.service.Create(r.Context(), req)
	if err != nil {
		respond(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusCreated, c)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req CreateCouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	c, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		respond(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, c)
}

func (h *Handler) listByCompany(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "company_id")
	coupons, err := h.service.ListByCompany(r.Context(), companyID)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, coupons)
}

func (h *Handler) getByCode(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.GetByCode(r.Context(), chi.URLParam(r, "company_id"), chi.URLParam(r, "code"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
			return
		}
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, c)
}

func statusFor(err error) int {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "already exists"):
		return http.StatusConflict
	case strings.Contains(msg, "required") || strings.Contains(msg, "invalid") ||
		strings.Contains(msg, "must"):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
