package api

import (
	"net/http"
)

// RegisterRoutes регистрирует все маршруты API.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Middleware chain
	chain := Chain(
		h.instrument,
		Recovery(h.logger),
		Logging(h.logger),
	)

	mux.Handle("GET /{$}", chain(http.HandlerFunc(h.Hello)))
}

// instrument подключает инструментацию, если она настроена.
func (h *Handler) instrument(next http.Handler) http.Handler {
	if h.instrumenter == nil {
		return next
	}
	return h.instrumenter.HTTPHandler(next, "GET /")
}
