package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/grocer/internal/grocery"
	"github.com/dukerupert/grocer/internal/websocket"
)

type TemplateHandler struct {
	base
}

func NewTemplateHandler(svc *grocery.Service, hub Broadcaster, logger *slog.Logger) *TemplateHandler {
	return &TemplateHandler{base: newBase(svc, hub, logger)}
}

func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	templates, err := h.svc.ListTemplates(r.Context())
	if err != nil {
		h.fail(w, r, err, "failed to list templates")
		return
	}
	writeJSON(w, http.StatusOK, templates)
}

func (h *TemplateHandler) Get(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.GetTemplate(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err, "failed to get template")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *TemplateHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in grocery.TemplateInput
	if !decode(w, r, &in) {
		return
	}
	t, err := h.svc.CreateTemplate(r.Context(), in)
	if err != nil {
		h.fail(w, r, err, "failed to create template")
		return
	}
	h.notify(websocket.EntityTemplate, websocket.ActionCreated, t.ID, nil)
	writeJSON(w, http.StatusCreated, t)
}

func (h *TemplateHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in grocery.TemplateInput
	if !decode(w, r, &in) {
		return
	}
	t, err := h.svc.UpdateTemplate(r.Context(), r.PathValue("id"), in)
	if err != nil {
		h.fail(w, r, err, "failed to update template")
		return
	}
	h.notify(websocket.EntityTemplate, websocket.ActionUpdated, t.ID, nil)
	writeJSON(w, http.StatusOK, t)
}

func (h *TemplateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.svc.DeleteTemplate(r.Context(), id); err != nil {
		h.fail(w, r, err, "failed to delete template")
		return
	}
	h.notify(websocket.EntityTemplate, websocket.ActionDeleted, id, nil)
	writeJSON(w, http.StatusOK, message("Template deleted successfully"))
}
