package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/grocer/internal/grocery"
	"github.com/dukerupert/grocer/internal/model"
	"github.com/dukerupert/grocer/internal/websocket"
)

type HistoryHandler struct {
	base
}

func NewHistoryHandler(svc *grocery.Service, hub Broadcaster, logger *slog.Logger) *HistoryHandler {
	return &HistoryHandler{base: newBase(svc, hub, logger)}
}

type historyResponse struct {
	History       []model.PurchaseHistory `json:"history"`
	Total         int                     `json:"total"`
	MostPurchased []model.PurchaseStat    `json:"mostPurchased"`
}

// List returns a page of the ledger (?limit=&offset=) with the top items.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", grocery.DefaultHistoryLimit)
	if err != nil {
		h.fail(w, r, err, "invalid query")
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		h.fail(w, r, err, "invalid query")
		return
	}

	page, err := h.svc.ListHistory(r.Context(), limit, offset)
	if err != nil {
		h.fail(w, r, err, "failed to fetch purchase history")
		return
	}
	top, err := h.svc.MostPurchased(r.Context(), grocery.DefaultTopItems)
	if err != nil {
		h.fail(w, r, err, "failed to fetch purchase history")
		return
	}
	writeJSON(w, http.StatusOK, historyResponse{History: page.History, Total: page.Total, MostPurchased: top})
}

func (h *HistoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in grocery.HistoryInput
	if !decode(w, r, &in) {
		return
	}
	hist, err := h.svc.RecordHistory(r.Context(), in)
	if err != nil {
		h.fail(w, r, err, "failed to create purchase history")
		return
	}
	h.notify(websocket.EntityHistory, websocket.ActionCreated, hist.ID, nil)
	writeJSON(w, http.StatusCreated, hist)
}

func (h *HistoryHandler) Clear(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.ClearHistory(r.Context())
	if err != nil {
		h.fail(w, r, err, "failed to clear purchase history")
		return
	}
	h.notify(websocket.EntityHistory, websocket.ActionCleared, "", nil)
	writeJSON(w, http.StatusOK, map[string]any{"message": "Purchase history cleared", "deleted": n})
}
