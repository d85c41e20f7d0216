// Package api содержит HTTP API сервер.
//
// Структура:
//   - handler.go            — Handler с DI (executor, история, publisher, logger)
//   - routes.go             — регистрация маршрутов
//   - middleware.go         — middleware (request id, logging, recovery, CORS, rate limit)
//   - response.go           — унифицированные JSON-ответы и обработка ошибок
//   - dto.go                — Data Transfer Objects (request/response)
//   - pipeline_handler.go   — обработчики для /pipelines/{parse,execute,render}
//   - execution_handler.go  — обработчики для /pipelines/executions
//
// /pipelines/execute всегда отвечает 200 с {"result": ...} или {"error": ...}:
// ошибка отличается наличием ключа error, а не HTTP статусом.
package api
