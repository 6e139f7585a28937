package api

import (
	"net/http"

	"github.com/shaiso/otelapp/internal/telemetry"
)

// HelloMessage — тело ответа GET / и сообщение лога.
const HelloMessage = "Hello OpenTelemetry!"

// Hello обрабатывает GET /.
func (h *Handler) Hello(w http.ResponseWriter, r *http.Request) {
	telemetry.FromContext(r.Context()).InfoContext(r.Context(), HelloMessage)
	Text(w, http.StatusOK, HelloMessage)
}
