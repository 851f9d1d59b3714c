package handler

import (
	"net/http"

	"dry-cleaner/internal/lifecycle"
	"dry-cleaner/internal/model"
	"dry-cleaner/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// List handles GET /api/orders.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, orders, h.logger)
}

// Create handles POST /api/orders.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.OrderRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err, h.logger)
		return
	}

	order, err := h.service.Create(r.Context(), sessionKey(r), &req)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, order, h.logger)
}

// Search handles GET /api/orders/search?query=.
func (h *OrderHandler) Search(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.Search(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, orders, h.logger)
}

// Stats handles GET /api/orders/stats.
func (h *OrderHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, stats, h.logger)
}

// GetByID handles GET /api/orders/{id}.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, order, h.logger)
}

type updateRequest struct {
	Status        *string `json:"status"`
	PaymentStatus *string `json:"paymentStatus"`
}

// Update handles PUT /api/orders/{id} with {status?, payment_status?}.
// Unknown status values are rejected here, before the order is loaded.
func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err, h.logger)
		return
	}

	var update model.OrderUpdate
	if req.Status != nil {
		status, err := lifecycle.ParseStatus(*req.Status)
		if err != nil {
			writeError(w, err, h.logger)
			return
		}
		update.Status = &status
	}
	if req.PaymentStatus != nil {
		ps, err := lifecycle.ParsePaymentStatus(*req.PaymentStatus)
		if err != nil {
			writeError(w, err, h.logger)
			return
		}
		update.PaymentStatus = &ps
	}

	order, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), update)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, order, h.logger)
}

// Advance handles POST /api/orders/{id}/advance.
func (h *OrderHandler) Advance(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.Advance(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, order, h.logger)
}

// MarkPaid handles POST /api/orders/{id}/mark-paid.
func (h *OrderHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.MarkPaid(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, order, h.logger)
}

// Delete handles DELETE /api/orders/{id}.
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
