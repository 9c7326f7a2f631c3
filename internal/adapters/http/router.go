package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/veeraceo-pixel/cashback/internal/adapters/metrics"
	"github.com/veeraceo-pixel/cashback/internal/application"
)

// Handler is the HTTP adapter over the reconciler and its admin use-cases.
type Handler struct {
	service   *application.Service
	readiness func(context.Context) error
}

// NewHandler binds the adapter to the service. readiness may be nil.
func NewHandler(service *application.Service, readiness func(context.Context) error) *Handler {
	return &Handler{service: service, readiness: readiness}
}

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handler.healthz)
	r.Get("/readyz", handler.readyz)
	r.Handle("/metrics", metrics.Handler())

	r.Post("/api/webhooks/{network}", handler.receiveWebhook)

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(handler.userAuthMiddleware)
			r.Post("/clicks", handler.recordClick)
		})
		r.Route("/admin", func(r chi.Router) {
			r.Use(handler.adminAuthMiddleware)
			r.Get("/session", handler.adminSession)
			r.Get("/transactions", handler.listTransactions)
			r.Get("/stores/{store_id}", handler.getStore)
			r.Patch("/stores/{store_id}", handler.updateStore)
			r.Post("/sync/{network}", handler.triggerSync)
		})
	})
	return r
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]string{"state": "ok"})
}

func (h *Handler) readyz(w http.ResponseWriter, r *http.Request) {
	if h.readiness != nil {
		if err := h.readiness(r.Context()); err != nil {
			logHTTPOperationError(r.Context(), "readyz", http.StatusServiceUnavailable, "NOT_READY", "dependency check failed", err)
			writeError(w, http.StatusServiceUnavailable, "NOT_READY", "dependency check failed")
			return
		}
	}
	writeSuccess(w, http.StatusOK, map[string]string{"state": "ready"})
}
