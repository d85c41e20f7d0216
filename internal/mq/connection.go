package mq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ErrNoChannel — канал недоступен (соединение закрыто или переподключается).
var ErrNoChannel = errors.New("no channel available")

// Connection — обёртка над AMQP соединением с автоматическим reconnect.
type Connection struct {
	url    string
	logger *slog.Logger

	mu      sync.RWMutex
	conn    *amqp.Connection
	channel *amqp.Channel

	closed   bool
	closedCh chan struct{}
}

// NewConnection устанавливает соединение с RabbitMQ и следит за ним.
func NewConnection(url string, logger *slog.Logger) (*Connection, error) {
	c := &Connection{
		url:      url,
		logger:   logger,
		closedCh: make(chan struct{}),
	}

	if err := c.connect(); err != nil {
		return nil, err
	}

	go c.watchConnection()

	return c, nil
}

// connect устанавливает соединение и открывает канал.
func (c *Connection) connect() error {
	conn, err := amqp.Dial(c.url)
	if err != nil {
		return fmt.Errorf("dial amqp: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.channel = ch
	c.mu.Unlock()

	c.logger.Info("connected to RabbitMQ")
	return nil
}

// watchConnection ждёт разрыва соединения или канала и восстанавливает их.
//
// Исключение на уровне канала (например, 404 на passive declare) закрывает
// только канал: он переоткрывается на том же соединении. Если это не
// удаётся, соединение пересоздаётся целиком.
func (c *Connection) watchConnection() {
	for {
		c.mu.RLock()
		conn, ch, closed := c.conn, c.channel, c.closed
		c.mu.RUnlock()

		if closed || ch == nil {
			return
		}

		connClosed := conn.NotifyClose(make(chan *amqp.Error, 1))
		chanClosed := ch.NotifyClose(make(chan *amqp.Error, 1))

		select {
		case <-c.closedCh:
			return

		case err := <-connClosed:
			if c.isClosed() {
				return
			}
			if err != nil {
				c.logger.Warn("connection closed", "error", err)
			}
			c.dropChannel()

			if !c.reconnect() {
				return
			}

		case err := <-chanClosed:
			if c.isClosed() {
				return
			}
			if err != nil {
				c.logger.Warn("channel closed", "error", err)
			}
			c.dropChannel()

			openErr := c.reopenChannel(conn)
			if openErr == nil {
				continue
			}
			c.logger.Warn("reopen channel failed, reconnecting", "error", openErr)

			conn.Close()
			if !c.reconnect() {
				return
			}
		}
	}
}

// reopenChannel открывает новый канал на существующем соединении.
func (c *Connection) reopenChannel(conn *amqp.Connection) error {
	if conn.IsClosed() {
		return amqp.ErrClosed
	}

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}

	c.mu.Lock()
	c.channel = ch
	c.mu.Unlock()

	c.logger.Info("channel reopened")
	return nil
}

func (c *Connection) dropChannel() {
	c.mu.Lock()
	c.channel = nil
	c.mu.Unlock()
}

func (c *Connection) isClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// reconnect переподключается с экспоненциальной задержкой (максимум 30 секунд).
// Возвращает false, если соединение закрыто через Close.
func (c *Connection) reconnect() bool {
	delay := time.Second

	for {
		select {
		case <-c.closedCh:
			return false
		case <-time.After(delay):
		}

		if err := c.connect(); err != nil {
			c.logger.Warn("reconnect failed", "error", err, "next_delay", delay)
			delay = min(delay*2, 30*time.Second)
			continue
		}

		c.logger.Info("reconnected to RabbitMQ")
		return true
	}
}

// WithChannel выполняет функцию с текущим каналом.
func (c *Connection) WithChannel(ctx context.Context, fn func(ch *amqp.Channel) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.RLock()
	ch := c.channel
	c.mu.RUnlock()

	if ch == nil {
		return ErrNoChannel
	}

	return fn(ch)
}

// Close закрывает канал и соединение.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	close(c.closedCh)

	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close channel: %w", err))
		}
		c.channel = nil
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close connection: %w", err))
		}
	}

	c.logger.Info("connection closed")
	return errors.Join(errs...)
}
