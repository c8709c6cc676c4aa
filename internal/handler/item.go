package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/grocer/internal/grocery"
	"github.com/dukerupert/grocer/internal/store"
	"github.com/dukerupert/grocer/internal/websocket"
)

type ItemHandler struct {
	base
}

func NewItemHandler(svc *grocery.Service, hub Broadcaster, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{base: newBase(svc, hub, logger)}
}

// List filters by ?search=, ?categoryId= and ?available=.
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	available, err := queryBool(r, "available")
	if err != nil {
		h.fail(w, r, err, "invalid query")
		return
	}
	q := r.URL.Query()
	items, err := h.svc.ListItems(r.Context(), store.ItemFilter{
		Search:     q.Get("search"),
		CategoryID: q.Get("categoryId"),
		Available:  available,
	})
	if err != nil {
		h.fail(w, r, err, "failed to list items")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.svc.GetItem(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err, "failed to get item")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in grocery.ItemInput
	if !decode(w, r, &in) {
		return
	}
	item, err := h.svc.CreateItem(r.Context(), in)
	if err != nil {
		h.fail(w, r, err, "failed to create item")
		return
	}
	h.notify(websocket.EntityItem, websocket.ActionCreated, item.ID, nil)
	writeJSON(w, http.StatusCreated, item)
}

func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in grocery.ItemInput
	if !decode(w, r, &in) {
		return
	}
	item, err := h.svc.UpdateItem(r.Context(), r.PathValue("id"), in)
	if err != nil {
		h.fail(w, r, err, "failed to update item")
		return
	}
	h.notify(websocket.EntityItem, websocket.ActionUpdated, item.ID, nil)
	writeJSON(w, http.StatusOK, item)
}

func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.svc.DeleteItem(r.Context(), id); err != nil {
		h.fail(w, r, err, "failed to delete item")
		return
	}
	h.notify(websocket.EntityItem, websocket.ActionDeleted, id, nil)
	writeJSON(w, http.StatusOK, message("Item deleted successfully"))
}
