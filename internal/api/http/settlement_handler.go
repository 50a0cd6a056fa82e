package http

import (
	"net/http"

	"gudangsewa-backend/internal/service"
)

type SettlementHandler struct {
	settlements service.SettlementService
}

func NewSettlementHandler(settlements service.SettlementService) *SettlementHandler {
	return &SettlementHandler{settlements: settlements}
}

func (h *SettlementHandler) ProcessReturn(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req service.ReturnRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.OrderID = orderID
	order, err := h.settlements.ProcessReturn(r.Context(), ActorFromContext(r.Context()), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *SettlementHandler) ListPenalties(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	penalties, err := h.settlements.ListPenalties(r.Context(), ActorFromContext(r.Context()), orderID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, penalties)
}
