package api

import (
	"net/http"
)

// RegisterRoutes регистрирует все маршруты API.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Middleware chain
	chain := Chain(
		Recovery(h.logger),
		RequestID(h.logger),
		CORS(h.allowedOrigins),
		Logging(),
	)
	limited := Chain(chain, RateLimit(h.limiter))

	// Pipelines
	mux.Handle("POST /pipelines/parse", chain(http.HandlerFunc(h.ParsePipeline)))
	mux.Handle("POST /pipelines/execute", limited(http.HandlerFunc(h.ExecutePipeline)))
	mux.Handle("POST /pipelines/render", chain(http.HandlerFunc(h.RenderPipeline)))

	// Executions
	mux.Handle("GET /pipelines/executions", chain(http.HandlerFunc(h.ListExecutions)))
	mux.Handle("GET /pipelines/executions/{id}", chain(http.HandlerFunc(h.GetExecution)))

	// CORS preflight
	mux.Handle("OPTIONS /", chain(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))
}
