package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dukerupert/grocer/internal/grocery"
	"github.com/dukerupert/grocer/internal/websocket"
)

const maxBodyBytes = 1 << 20

// Broadcaster receives a change notification after every successful write.
type Broadcaster interface {
	Broadcast(websocket.Message)
}

type nopBroadcaster struct{}

func (nopBroadcaster) Broadcast(websocket.Message) {}

// base holds what every resource handler needs.
type base struct {
	svc    *grocery.Service
	hub    Broadcaster
	logger *slog.Logger
}

func newBase(svc *grocery.Service, hub Broadcaster, logger *slog.Logger) base {
	if hub == nil {
		hub = nopBroadcaster{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return base{svc: svc, hub: hub, logger: logger.With("component", "handler")}
}

func (b base) notify(entity, action, id string, extra map[string]any) {
	b.hub.Broadcast(websocket.NewMessage(entity, action, id, extra))
}

type validationResponse struct {
	Error   string               `json:"error"`
	Details []grocery.FieldError `json:"details"`
}

// fail maps a service error onto a status code. Unclassified errors are
// logged and reported with the generic msg.
func (b base) fail(w http.ResponseWriter, r *http.Request, err error, msg string) {
	var verr *grocery.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, validationResponse{Error: "Validation failed", Details: verr.Details})
	case errors.Is(err, grocery.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, grocery.ErrConflict):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Item already exists in purchase list"})
	case errors.Is(err, grocery.ErrInUse):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		b.logger.Error(msg, "error", err, "method", r.Method, "path", r.URL.Path)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": msg})
	}
}

// decode reads a JSON body into v. It writes the 400 response itself and
// returns false when the body is unusable.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "request body is required"})
		return false
	}
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return false
	}
	return true
}

// queryBool parses an optional boolean query parameter.
func queryBool(r *http.Request, key string) (*bool, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, &grocery.ValidationError{Details: []grocery.FieldError{{Field: key, Message: "must be true or false"}}}
	}
	return &v, nil
}

// queryInt parses an optional non-negative integer query parameter.
func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, &grocery.ValidationError{Details: []grocery.FieldError{{Field: key, Message: "must be a non-negative integer"}}}
	}
	return v, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func message(text string) map[string]string {
	return map[string]string{"message": text}
}
