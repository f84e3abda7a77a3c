package order

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pedimenu/pedimenu-backend/internal/modules/cart"
)

// Handler exposes order HTTP endpoints.
type Handler struct {
	service    Service
	adminGuard func(http.Handler) http.Handler
}

func NewHandler(service Service, adminGuard func(http.Handler) http.Handler) *Handler {
	return &Handler{service: service, adminGuard: adminGuard}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Post("/", h.finalize)            // POST  /api/v1/orders
		r.Get("/{id}", h.getOrder)         // GET   /api/v1/orders/{id}
		r.Post("/{id}/confirm", h.confirm) // POST  /api/v1/orders/{id}/confirm
		r.With(h.adminGuard).Patch("/{id}/status", h.updateStatus)
		r.With(h.adminGuard).Get("/company/{company_id}", h.listCompanyOrders)
		r.With(h.adminGuard).Get("/company/{company_id}/number/{number}", h.getByNumber)
	})
}

func (h *Handler) finalize(w http.ResponseWriter, r *http.Request) {
	var req FinalizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	result, err := h.service.Finalize(r.Context(), req)
	if err != nil {
		var verrs ValidationErrors
		if errors.As(err, &verrs) {
			respond(w, http.StatusUnprocessableEntity, map[string]interface{}{"errors": verrs})
			return
		}
		code := http.StatusInternalServerError
		if errors.Is(err, cart.ErrCartNotFound) {
			code = http.StatusNotFound
		} else if errors.Is(err, cart.ErrStaleCart) {
			code = http.StatusConflict
		} else if strings.Contains(err.Error(), "not found") {
			code = http.StatusNotFound
		}
		respond(w, code, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusCreated, result)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond(w, http.StatusNotFound, map[string]string{"error": "order not found"})
		return
	}
	respond(w, http.StatusOK, o)
}

func (h *Handler) confirm(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.ConfirmWhatsapp(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, ErrOrderNotFound) {
			code = http.StatusNotFound
		}
		respond(w, code, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, o)
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	o, err := h.service.ChangeStatus(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, ErrOrderNotFound) {
			code = http.StatusNotFound
		} else if strings.Contains(err.Error(), "unknown status") {
			code = http.StatusBadRequest
		}
		respond(w, code, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, o)
}

func (h *Handler) listCompanyOrders(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "company_id")
	status := r.URL.Query().Get("status")
	orders, err := h.service.ListByCompany(r.Context(), companyID, status)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, orders)
}

func (h *Handler) getByNumber(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "company_id")
	number, err := strconv.ParseInt(chi.URLParam(r, "number"), 10, 64)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid order number"})
		return
	}
	o, err := h.service.GetByNumber(r.Context(), companyID, number)
	if err != nil {
		respond(w, http.StatusNotFound, map[string]string{"error": "order not found"})
		return
	}
	respond(w, http.StatusOK, o)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
