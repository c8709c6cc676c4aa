package server

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dukerupert/grocer/internal/grocery"
	"github.com/dukerupert/grocer/internal/handler"
	"github.com/dukerupert/grocer/internal/middleware"
	ws "github.com/dukerupert/grocer/internal/websocket"
)

// Options tunes the HTTP surface.
type Options struct {
	// RateLimit is requests per second per client IP; 0 disables limiting.
	RateLimit float64
	RateBurst int
	// WSOrigins restricts websocket origins; empty accepts any.
	WSOrigins []string
}

type Server struct {
	svc         *grocery.Service
	hub         *ws.Hub
	opts        Options
	categoryH   *handler.CategoryHandler
	itemH       *handler.ItemHandler
	listH       *handler.PurchaseListHandler
	entryH      *handler.PurchaseItemHandler
	historyH    *handler.HistoryHandler
	templateH   *handler.TemplateHandler
	rateLimiter *middleware.RateLimiter
	logger      *slog.Logger
}

func New(svc *grocery.Service, opts Options, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger)

	s := &Server{
		svc:       svc,
		hub:       hub,
		opts:      opts,
		categoryH: handler.NewCategoryHandler(svc, hub, logger),
		itemH:     handler.NewItemHandler(svc, hub, logger),
		listH:     handler.NewPurchaseListHandler(svc, hub, logger),
		entryH:    handler.NewPurchaseItemHandler(svc, hub, logger),
		historyH:  handler.NewHistoryHandler(svc, hub, logger),
		templateH: handler.NewTemplateHandler(svc, hub, logger),
		logger:    logger,
	}
	if opts.RateLimit > 0 {
		s.rateLimiter = middleware.NewRateLimiter(opts.RateLimit, opts.RateBurst)
	}
	return s
}

func (s *Server) Hub() *ws.Hub {
	return s.hub
}

// RateLimiter is nil when limiting is disabled.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.Health(s.svc))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /ws", ws.Handler(s.hub, s.opts.WSOrigins, s.logger))

	api := http.NewServeMux()
	s.registerAPIRoutes(api)

	var apiHandler http.Handler = api
	if s.rateLimiter != nil {
		apiHandler = middleware.RateLimit(s.rateLimiter, middleware.RealIP)(api)
	}
	mux.Handle("/api/", apiHandler)

	var h http.Handler = mux
	h = middleware.Metrics(h)
	h = middleware.Recoverer(s.logger.With("component", "http"))(h)
	h = middleware.RequestLogger(s.logger.With("component", "http"))(h)
	return h
}

func (s *Server) registerAPIRoutes(mux *http.ServeMux) {
	// Categories
	mux.HandleFunc("GET /api/categories", s.categoryH.List)
	mux.HandleFunc("POST /api/categories", s.categoryH.Create)
	mux.HandleFunc("GET /api/categories/suggest", s.categoryH.Suggest)
	mux.HandleFunc("PUT /api/categories/{id}", s.categoryH.Update)
	mux.HandleFunc("DELETE /api/categories/{id}", s.categoryH.Delete)

	// Items
	mux.HandleFunc("GET /api/items", s.itemH.List)
	mux.HandleFunc("POST /api/items", s.itemH.Create)
	mux.HandleFunc("GET /api/items/{id}", s.itemH.Get)
	mux.HandleFunc("PUT /api/items/{id}", s.itemH.Update)
	mux.HandleFunc("DELETE /api/items/{id}", s.itemH.Delete)

	// Purchase lists
	mux.HandleFunc("GET /api/purchase-lists", s.listH.List)
	mux.HandleFunc("POST /api/purchase-lists", s.listH.Create)
	mux.HandleFunc("GET /api/purchase-lists/active", s.listH.Active)
	mux.HandleFunc("GET /api/purchase-lists/{id}", s.listH.Get)
	mux.HandleFunc("PUT /api/purchase-lists/{id}", s.listH.Update)
	mux.HandleFunc("DELETE /api/purchase-lists/{id}", s.listH.Delete)
	mux.HandleFunc("GET /api/purchase-lists/{id}/items", s.listH.ListEntries)
	mux.HandleFunc("POST /api/purchase-lists/{id}/items", s.listH.AddEntry)
	mux.HandleFunc("POST /api/purchase-lists/{id}/add-template", s.listH.ApplyTemplate)

	// Purchase items (list entries)
	mux.HandleFunc("GET /api/purchase-items/{id}", s.entryH.Get)
	mux.HandleFunc("PUT /api/purchase-items/{id}", s.entryH.Update)
	mux.HandleFunc("DELETE /api/purchase-items/{id}", s.entryH.Delete)
	mux.HandleFunc("POST /api/purchase-items/{id}/complete", s.entryH.Complete)

	// Purchase history
	mux.HandleFunc("GET /api/purchase-history", s.historyH.List)
	mux.HandleFunc("POST /api/purchase-history", s.historyH.Create)
	mux.HandleFunc("DELETE /api/purchase-history", s.historyH.Clear)

	// Templates
	mux.HandleFunc("GET /api/templates", s.templateH.List)
	mux.HandleFunc("POST /api/templates", s.templateH.Create)
	mux.HandleFunc("GET /api/templates/{id}", s.templateH.Get)
	mux.HandleFunc("PUT /api/templates/{id}", s.templateH.Update)
	mux.HandleFunc("DELETE /api/templates/{id}", s.templateH.Delete)

	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"not found"}` + "\n"))
	})
}
