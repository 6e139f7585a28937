package config

import "errors"

// Ошибки конфигурации.
var (
	// ErrInvalidEndpoint — адрес коллектора не является абсолютным http(s) URL.
	ErrInvalidEndpoint = errors.New("invalid collector endpoint")

	// ErrUnknownProtocol — неизвестный протокол экспорта.
	ErrUnknownProtocol = errors.New("unknown export protocol")

	// ErrInvalidValue — значение настройки не удалось разобрать.
	ErrInvalidValue = errors.New("invalid config value")
)
