package http

import (
	"net/http"

	"gudangsewa-backend/internal/service"
)

type RentalHandler struct {
	rentals service.RentalService
}

func NewRentalHandler(rentals service.RentalService) *RentalHandler {
	return &RentalHandler{rentals: rentals}
}

func (h *RentalHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	detail, err := h.rentals.GetOrCreateDraft(r.Context(), ActorFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *RentalHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req service.AddItemRequest
	if !decodeBody(w, r, &req) {
		return
	}
	line, err := h.rentals.AddItem(r.Context(), ActorFromContext(r.Context()), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, line)
}

func (h *RentalHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	itemID, ok := pathID(w, r, "itemId")
	if !ok {
		return
	}
	var req service.UpdateItemRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.ItemID = itemID
	if err := h.rentals.UpdateItem(r.Context(), ActorFromContext(r.Context()), req); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *RentalHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	itemID, ok := pathID(w, r, "itemId")
	if !ok {
		return
	}
	if err := h.rentals.RemoveItem(r.Context(), ActorFromContext(r.Context()), itemID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *RentalHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req service.CheckoutRequest
	if !decodeBody(w, r, &req) {
		return
	}
	order, err := h.rentals.Checkout(r.Context(), ActorFromContext(r.Context()), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *RentalHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.rentals.ListMyOrders(r.Context(), ActorFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *RentalHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	detail, err := h.rentals.GetOrderDetail(r.Context(), ActorFromContext(r.Context()), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}
