package cart

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pedimenu/pedimenu-backend/internal/modules/coupon"
)

// Handler exposes cart HTTP endpoints for the storefront.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/carts", func(r chi.Router) {
		r.Post("/", h.create)
		r.Get("/{id}", h.get)
		r.Post("/{id}/lines", h.addLine)
		r.Patch("/{id}/lines/{index}", h.updateLineQuantity)
		r.Delete("/{id}/lines/{index}", h.removeLine)
		r.Put("/{id}/client", h.updateClient)
		r.Put("/{id}/delivery", h.setDelivery)
		r.Post("/{id}/coupon", h.applyCoupon)
		r.Delete("/{id}/coupon", h.removeCoupon)
	})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CompanyID string `json:"company_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	c, err := h.service.Create(r.Context(), req.CompanyID)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusCreated, c)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, c)
}

func (h *Handler) addLine(w http.ResponseWriter, r *http.Request) {
	var req AddLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	c, violations, err := h.service.AddLine(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		respondErr(w, err)
		return
	}
	if len(violations) > 0 {
		msgs := make([]string, len(violations))
		for i, v := range violations {
			msgs[i] = v.Error()
		}
		respond(w, http.StatusUnprocessableEntity, map[string]interface{}{"errors": msgs})
		return
	}
	respond(w, http.StatusOK, c)
}

func (h *Handler) updateLineQuantity(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid line index"})
		return
	}
	var req struct {
		Version  int64 `json:"version"`
		Quantity int   `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	c, err := h.service.UpdateLineQuantity(r.Context(), chi.URLParam(r, "id"), req.Version, index, req.Quantity)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, c)
}

func (h *Handler) removeLine(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid line index"})
		return
	}
	version, err := strconv.ParseInt(r.URL.Query().Get("version"), 10, 64)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "version query param required"})
		return
	}
	c, err := h.service.RemoveLine(r.Context(), chi.URLParam(r, "id"), version, index)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, c)
}

func (h *Handler) updateClient(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Version int64  `json:"version"`
		Client  Client `json:"client"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	c, err := h.service.UpdateClient(r.Context(), chi.URLParam(r, "id"), req.Version, req.Client)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, c)
}

func (h *Handler) setDelivery(w http.ResponseWriter, r *http.Request) {
	var req SetDeliveryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	c, err := h.service.SetDelivery(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, c)
}

func (h *Handler) applyCoupon(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Version int64  `json:"version"`
		Code    string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	c, err := h.service.ApplyCoupon(r.Context(), chi.URLParam(r, "id"), req.Version, req.Code)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, c)
}

func (h *Handler) removeCoupon(w http.ResponseWriter, r *http.Request) {
	version, err := strconv.ParseInt(r.URL.Query().Get("version"), 10, 64)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "version query param required"})
		return
	}
	c, err := h.service.RemoveCoupon(r.Context(), chi.URLParam(r, "id"), version)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, c)
}

// respondErr maps domain errors to HTTP statuses. Coupon eligibility errors
// each keep their own message so the storefront can show a specific reason.
func respondErr(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrCartNotFound):
		code = http.StatusNotFound
	case errors.Is(err, ErrStaleCart):
		code = http.StatusConflict
	case errors.Is(err, ErrLineOutOfRange):
		code = http.StatusNotFound
	case errors.Is(err, coupon.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, coupon.ErrInactive),
		errors.Is(err, coupon.ErrExpired),
		errors.Is(err, coupon.ErrUsageExceeded),
		errors.Is(err, coupon.ErrBelowMinimum):
		code = http.StatusUnprocessableEntity
	case errors.Is(err, ErrDistanceUnavailable):
		code = http.StatusBadGateway
	case strings.Contains(err.Error(), "invalid") ||
		strings.Contains(err.Error(), "must") ||
		strings.Contains(err.Error(), "picked twice") ||
		strings.Contains(err.Error(), "allows at most") ||
		strings.Contains(err.Error(), "does not belong"):
		code = http.StatusBadRequest
	case strings.Contains(err.Error(), "not found"):
		code = http.StatusNotFound
	case strings.Contains(err.Error(), "unavailable"):
		code = http.StatusUnprocessableEntity
	}
	respond(w, code, map[string]string{"error": err.Error()})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
