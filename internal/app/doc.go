// Package app собирает сервис из компонентов.
//
// Порядок старта: конфигурация → Binding → провайдеры телеметрии и логгер
// → HTTP сервер → heartbeat. Остановка: сервер перестаёт принимать запросы,
// затем lifecycle.Coordinator отменяет heartbeat и закрывает sink логов.
//
// Использование:
//
//	a, err := app.New(ctx, cfg, app.Options{})
//	if err != nil {
//	    // некорректная конфигурация — сервер не запускается
//	}
//	err = a.Run(ctx) // до отмены ctx
package app
