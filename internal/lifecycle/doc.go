// Package lifecycle реализует последовательность остановки сервиса.
//
// Coordinator.Stop выполняется ровно один раз:
//  1. отменяет фоновые задачи (heartbeat);
//  2. пишет "Application stopping";
//  3. сбрасывает и закрывает sink логов.
//
// Завершения фоновых горутин Coordinator не ждёт: последняя запись
// heartbeat может не попасть в коллектор.
package lifecycle
