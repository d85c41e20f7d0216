// Package mq публикует события выполнения pipeline в RabbitMQ.
//
// Структура:
//   - connection.go — соединение с RabbitMQ (reconnect, graceful shutdown)
//   - topology.go   — объявление exchange, очереди и привязки
//   - publisher.go  — публикация сообщений
//
// Типы сообщений:
//   - pipeline.executed — выполнение pipeline завершено (успешно или с ошибкой)
//
// Exchanges:
//   - pipeliner.executions — события выполнений
//
// События необязательны: без AMQP_URL сервис работает без них.
package mq
