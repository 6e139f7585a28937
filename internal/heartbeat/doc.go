// Package heartbeat реализует фоновый периодический лог.
//
// Heartbeat пишет одну запись "Background log at {Time}" за интервал,
// пока не отменён контекст. Отмена прерывает ожидание сразу,
// без дополнительной записи.
//
// Использование:
//
//	hb := heartbeat.New(heartbeat.Config{Logger: logger})
//	go hb.Run(ctx)
package heartbeat
