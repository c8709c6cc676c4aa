package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/dukerupert/grocer/internal/grocery"
	"github.com/dukerupert/grocer/internal/model"
	"github.com/dukerupert/grocer/internal/websocket"
)

type PurchaseListHandler struct {
	base
}

func NewPurchaseListHandler(svc *grocery.Service, hub Broadcaster, logger *slog.Logger) *PurchaseListHandler {
	return &PurchaseListHandler{base: newBase(svc, hub, logger)}
}

// List filters by ?isActive=.
func (h *PurchaseListHandler) List(w http.ResponseWriter, r *http.Request) {
	active, err := queryBool(r, "isActive")
	if err != nil {
		h.fail(w, r, err, "invalid query")
		return
	}
	lists, err := h.svc.ListPurchaseLists(r.Context(), active)
	if err != nil {
		h.fail(w, r, err, "failed to list purchase lists")
		return
	}
	writeJSON(w, http.StatusOK, lists)
}

// Active returns the current shopping list, creating it on first use.
func (h *PurchaseListHandler) Active(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.GetOrCreateActiveList(r.Context())
	if err != nil {
		h.fail(w, r, err, "failed to get active list")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *PurchaseListHandler) Get(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.GetPurchaseList(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err, "failed to get purchase list")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *PurchaseListHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in grocery.PurchaseListInput
	if !decode(w, r, &in) {
		return
	}
	list, err := h.svc.CreatePurchaseList(r.Context(), in)
	if err != nil {
		h.fail(w, r, err, "failed to create purchase list")
		return
	}
	h.notify(websocket.EntityPurchaseList, websocket.ActionCreated, list.ID, nil)
	writeJSON(w, http.StatusCreated, list)
}

func (h *PurchaseListHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in grocery.PurchaseListInput
	if !decode(w, r, &in) {
		return
	}
	list, err := h.svc.UpdatePurchaseList(r.Context(), r.PathValue("id"), in)
	if err != nil {
		h.fail(w, r, err, "failed to update purchase list")
		return
	}
	h.notify(websocket.EntityPurchaseList, websocket.ActionUpdated, list.ID, nil)
	writeJSON(w, http.StatusOK, list)
}

func (h *PurchaseListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.svc.DeletePurchaseList(r.Context(), id); err != nil {
		h.fail(w, r, err, "failed to delete purchase list")
		return
	}
	h.notify(websocket.EntityPurchaseList, websocket.ActionDeleted, id, nil)
	writeJSON(w, http.StatusOK, message("Purchase list deleted successfully"))
}

func (h *PurchaseListHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.ListEntries(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err, "failed to list purchase items")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *PurchaseListHandler) AddEntry(w http.ResponseWriter, r *http.Request) {
	var in grocery.EntryInput
	if !decode(w, r, &in) {
		return
	}
	listID := r.PathValue("id")
	entry, err := h.svc.AddItemToList(r.Context(), listID, in)
	if err != nil {
		h.fail(w, r, err, "failed to add item to list")
		return
	}
	h.notify(websocket.EntityPurchaseItem, websocket.ActionCreated, entry.ID, map[string]any{"purchaseListId": listID})
	writeJSON(w, http.StatusCreated, entry)
}

type applyTemplateRequest struct {
	TemplateID string `json:"templateId"`
}

type applyTemplateResponse struct {
	Message    string               `json:"message"`
	AddedItems []model.PurchaseItem `json:"addedItems"`
	Skipped    int                  `json:"skipped"`
}

func (h *PurchaseListHandler) ApplyTemplate(w http.ResponseWriter, r *http.Request) {
	var req applyTemplateRequest
	if !decode(w, r, &req) {
		return
	}
	if req.TemplateID == "" {
		h.fail(w, r, &grocery.ValidationError{Details: []grocery.FieldError{{Field: "templateId", Message: "is required"}}}, "invalid request")
		return
	}
	listID := r.PathValue("id")
	res, err := h.svc.ApplyTemplate(r.Context(), listID, req.TemplateID)
	if err != nil {
		h.fail(w, r, err, "failed to add template items")
		return
	}
	if len(res.Added) > 0 {
		h.notify(websocket.EntityPurchaseList, websocket.ActionUpdated, listID, map[string]any{"added": len(res.Added)})
	}
	writeJSON(w, http.StatusOK, applyTemplateResponse{
		Message:    fmt.Sprintf("Added %d items from template %q", len(res.Added), res.TemplateName),
		AddedItems: res.Added,
		Skipped:    res.Skipped,
	})
}
