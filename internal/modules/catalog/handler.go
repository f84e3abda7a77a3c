package catalog

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Handler exposes catalog HTTP endpoints.
type Handler struct {
	service    Service
	adminGuard func(http.Handler) http.Handler
}

func NewHandler(service Service, adminGuard func(http.Handler) http.Handler) *Handler {
	return &Handler{service: service, adminGuard: adminGuard}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Get("/products/{id}", h.getProduct) // storefront product modal
		r.Get("/companies/{company_id}/products", h.listProducts)
		r.With(h.adminGuard).Post("/products", h.createProduct)
		r.With(h.adminGuard).Put("/products/{id}/groups", h.saveGroups)
	})
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		respond(w, http.StatusNotFound, map[string]string{"error": "product not found"})
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "company_id")
	products, err := h.service.ListCompanyProducts(r.Context(), companyID)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, products)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	p, err := h.service.CreateProduct(r.Context(), req)
	if err != nil {
		code := http.StatusInternalServerError
		msg := err.Error()
		if strings.Contains(msg, "required") || strings.Contains(msg, "invalid") || strings.Contains(msg, "negative") {
			code = http.StatusBadRequest
		}
		respond(w, code, map[string]string{"error": msg})
		return
	}
	respond(w, http.StatusCreated, p)
}

func (h *Handler) saveGroups(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var groups []ComplementGroup
	if err := json.NewDecoder(r.Body).Decode(&groups); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	violations, err := h.service.SaveGroups(r.Context(), id, groups)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if len(violations) > 0 {
		respond(w, http.StatusUnprocessableEntity, map[string]interface{}{"errors": violations})
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "groups saved"})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
