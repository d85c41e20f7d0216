package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/shaiso/Pipeliner/internal/domain"
)

// MessageType — тип сообщения в очереди.
type MessageType string

// Типы сообщений.
const (
	MessageTypePipelineExecuted MessageType = "pipeline.executed"
)

// Message — сообщение для публикации.
type Message struct {
	// ID — уникальный идентификатор сообщения.
	ID string `json:"id"`

	// Type — тип сообщения.
	Type MessageType `json:"type"`

	// Payload — полезная нагрузка.
	Payload any `json:"payload"`

	// Timestamp — время создания.
	Timestamp time.Time `json:"timestamp"`
}

// PipelineExecutedPayload — payload события о завершённом выполнении.
type PipelineExecutedPayload struct {
	ExecutionID uuid.UUID              `json:"execution_id"`
	Status      domain.ExecutionStatus `json:"status"`
	Tier        string                 `json:"tier,omitempty"`
	Error       string                 `json:"error,omitempty"`
	NumNodes    int                    `json:"num_nodes"`
	NumEdges    int                    `json:"num_edges"`
	DurationMs  int64                  `json:"duration_ms"`
}

// NewPipelineExecutedMessage формирует событие из записи о выполнении.
// Входной и сгенерированный текст в событие не попадают.
func NewPipelineExecutedMessage(e *domain.Execution) *Message {
	return &Message{
		ID:   uuid.New().String(),
		Type: MessageTypePipelineExecuted,
		Payload: PipelineExecutedPayload{
			ExecutionID: e.ID,
			Status:      e.Status,
			Tier:        e.Tier,
			Error:       e.Error,
			NumNodes:    e.NumNodes,
			NumEdges:    e.NumEdges,
			DurationMs:  e.DurationMs,
		},
		Timestamp: time.Now(),
	}
}

// Publisher публикует сообщения в RabbitMQ.
type Publisher struct {
	conn   *Connection
	logger *slog.Logger
}

// NewPublisher создаёт новый Publisher.
func NewPublisher(conn *Connection, logger *slog.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		logger: logger,
	}
}

// Publish публикует сообщение в указанный exchange с routing key.
func (p *Publisher) Publish(ctx context.Context, exchange Exchange, routingKey RoutingKey, msg *Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	return p.conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		err := ch.PublishWithContext(
			ctx,
			string(exchange),   // exchange
			string(routingKey), // routing key
			false,
			false,
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				MessageId:    msg.ID,
				Timestamp:    msg.Timestamp,
				Type:         string(msg.Type),
				Body:         body,
			},
		)
		if err != nil {
			return fmt.Errorf("publish to %s/%s: %w", exchange, routingKey, err)
		}

		p.logger.Debug("published message",
			"exchange", exchange,
			"routing_key", routingKey,
			"message_id", msg.ID,
			"type", msg.Type,
		)

		return nil
	})
}

// PublishExecuted публикует событие pipeline.executed.
func (p *Publisher) PublishExecuted(ctx context.Context, e *domain.Execution) error {
	return p.Publish(ctx, ExchangeExecutions, RoutingKeyExecuted, NewPipelineExecutedMessage(e))
}
