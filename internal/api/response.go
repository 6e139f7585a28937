package api

import (
	"net/http"
)

// Text отправляет ответ text/plain.
func Text(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// InternalError отправляет ошибку 500.
func InternalError(w http.ResponseWriter) {
	Text(w, http.StatusInternalServerError, "internal server error")
}
