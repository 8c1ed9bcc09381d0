// Package httptransport exposes the registry's read-only ops surface:
// health, metrics, fee bookkeeping, and submission lookups. The registry's
// mutation API stays procedural; nothing here can change state.
package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires the ops endpoints.
func NewRouter(h *Handler, reg *prometheus.Registry) http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", h.HandleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.Get("/fees", h.HandleFees)
	r.Get("/submissions/count", h.HandleCount)
	r.Get("/submissions/{id}", h.HandleGetSubmission)
	r.Get("/submissions/{id}/amendment", h.HandleGetAmendment)
	return r
}
