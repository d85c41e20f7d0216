package mq

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange — тип для имени обменника.
type Exchange string

// Queue — тип для имени очереди.
type Queue string

// RoutingKey — тип для ключа маршрутизации.
type RoutingKey string

const (
	ExchangeExecutions Exchange   = "pipeliner.executions"
	QueueExecutions    Queue      = "executions.completed"
	RoutingKeyExecuted RoutingKey = "executed"
)

// SetupTopology объявляет exchange, очередь и привязку.
func SetupTopology(ctx context.Context, conn *Connection) error {
	return conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		err := ch.ExchangeDeclare(
			string(ExchangeExecutions), // name
			"direct",                   // type
			true,                       // durable
			false,                      // auto-deleted
			false,                      // internal
			false,                      // no-wait
			nil,                        // arguments
		)
		if err != nil {
			return fmt.Errorf("declare exchange %s: %w", ExchangeExecutions, err)
		}

		_, err = ch.QueueDeclare(
			string(QueueExecutions), // name
			true,                    // durable
			false,                   // delete when unused
			false,                   // exclusive
			false,                   // no-wait
			nil,                     // arguments
		)
		if err != nil {
			return fmt.Errorf("declare queue %s: %w", QueueExecutions, err)
		}

		err = ch.QueueBind(
			string(QueueExecutions),
			string(RoutingKeyExecuted),
			string(ExchangeExecutions),
			false,
			nil,
		)
		if err != nil {
			return fmt.Errorf("bind queue %s to %s: %w", QueueExecutions, ExchangeExecutions, err)
		}

		return nil
	})
}
