package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/grocer/internal/grocery"
	"github.com/dukerupert/grocer/internal/websocket"
)

type CategoryHandler struct {
	base
}

func NewCategoryHandler(svc *grocery.Service, hub Broadcaster, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{base: newBase(svc, hub, logger)}
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.ListCategories(r.Context())
	if err != nil {
		h.fail(w, r, err, "failed to list categories")
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in grocery.CategoryInput
	if !decode(w, r, &in) {
		return
	}
	c, err := h.svc.CreateCategory(r.Context(), in)
	if err != nil {
		h.fail(w, r, err, "failed to create category")
		return
	}
	h.notify(websocket.EntityCategory, websocket.ActionCreated, c.ID, nil)
	writeJSON(w, http.StatusCreated, c)
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in grocery.CategoryInput
	if !decode(w, r, &in) {
		return
	}
	c, err := h.svc.UpdateCategory(r.Context(), r.PathValue("id"), in)
	if err != nil {
		h.fail(w, r, err, "failed to update category")
		return
	}
	h.notify(websocket.EntityCategory, websocket.ActionUpdated, c.ID, nil)
	writeJSON(w, http.StatusOK, c)
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.svc.DeleteCategory(r.Context(), id); err != nil {
		h.fail(w, r, err, "failed to delete category")
		return
	}
	h.notify(websocket.EntityCategory, websocket.ActionDeleted, id, nil)
	writeJSON(w, http.StatusOK, message("Category deleted"))
}

// Suggest guesses a category for ?name=.
func (h *CategoryHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.SuggestCategory(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		h.fail(w, r, err, "failed to suggest category")
		return
	}
	writeJSON(w, http.StatusOK, c)
}
