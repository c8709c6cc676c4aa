package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/grocer/internal/grocery"
	"github.com/dukerupert/grocer/internal/model"
	"github.com/dukerupert/grocer/internal/websocket"
)

// PurchaseItemHandler serves individual shopping list entries.
type PurchaseItemHandler struct {
	base
}

func NewPurchaseItemHandler(svc *grocery.Service, hub Broadcaster, logger *slog.Logger) *PurchaseItemHandler {
	return &PurchaseItemHandler{base: newBase(svc, hub, logger)}
}

func (h *PurchaseItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	entry, err := h.svc.GetEntry(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err, "failed to get purchase item")
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (h *PurchaseItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in grocery.EntryUpdate
	if !decode(w, r, &in) {
		return
	}
	entry, err := h.svc.UpdateEntry(r.Context(), r.PathValue("id"), in)
	if err != nil {
		h.fail(w, r, err, "failed to update purchase item")
		return
	}
	h.notify(websocket.EntityPurchaseItem, websocket.ActionUpdated, entry.ID,
		map[string]any{"purchaseListId": entry.PurchaseListID})
	writeJSON(w, http.StatusOK, entry)
}

type removeEntryResponse struct {
	Message string                 `json:"message"`
	History *model.PurchaseHistory `json:"history,omitempty"`
}

// Delete takes an entry off its list. The purchase is recorded in the ledger
// unless ?discard=true.
func (h *PurchaseItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	discard, err := queryBool(r, "discard")
	if err != nil {
		h.fail(w, r, err, "invalid query")
		return
	}

	if discard != nil && *discard {
		if err := h.svc.RemoveEntry(r.Context(), id); err != nil {
			h.fail(w, r, err, "failed to remove purchase item")
			return
		}
		h.notify(websocket.EntityPurchaseItem, websocket.ActionDeleted, id, nil)
		writeJSON(w, http.StatusOK, removeEntryResponse{Message: "Purchase item removed successfully"})
		return
	}

	hist, err := h.svc.CompletePurchase(r.Context(), id, grocery.CompleteInput{})
	if err != nil {
		h.fail(w, r, err, "failed to remove purchase item")
		return
	}
	h.notifyCompleted(id, hist)
	writeJSON(w, http.StatusOK, removeEntryResponse{Message: "Purchase item removed successfully", History: hist})
}

// Complete records the purchase with optional overrides and removes the entry.
func (h *PurchaseItemHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var in grocery.CompleteInput
	if r.ContentLength != 0 && !decode(w, r, &in) {
		return
	}
	id := r.PathValue("id")
	hist, err := h.svc.CompletePurchase(r.Context(), id, in)
	if err != nil {
		h.fail(w, r, err, "failed to complete purchase")
		return
	}
	h.notifyCompleted(id, hist)
	writeJSON(w, http.StatusCreated, hist)
}

func (h *PurchaseItemHandler) notifyCompleted(entryID string, hist *model.PurchaseHistory) {
	h.notify(websocket.EntityPurchaseItem, websocket.ActionCompleted, entryID, map[string]any{"historyId": hist.ID})
	h.notify(websocket.EntityHistory, websocket.ActionCreated, hist.ID, nil)
}
