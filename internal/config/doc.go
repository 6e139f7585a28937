// Package config содержит конфигурацию сервиса.
//
// Значения по умолчанию заданы константами и могут быть переопределены
// переменными окружения (Load) или флагами командной строки (cmd/otelapp).
// Validate вызывается до старта HTTP сервера: некорректный endpoint
// коллектора останавливает процесс с ненулевым кодом выхода.
package config
