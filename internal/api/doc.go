// Package api содержит HTTP обработчики сервиса.
//
// Структура:
//   - handler.go       — Handler с DI (logger, провайдеры телеметрии)
//   - routes.go        — регистрация маршрутов
//   - middleware.go    — middleware (logging, recovery)
//   - response.go      — текстовые ответы и обработка ошибок
//   - hello_handler.go — обработчик GET /
//
// API предоставляет единственный маршрут GET /.
package api
