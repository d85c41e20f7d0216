package mq

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaiso/Pipeliner/internal/domain"
)

// amqpURL возвращает адрес тестового брокера или пропускает тест.
func amqpURL(t *testing.T) string {
	t.Helper()
	url := os.Getenv("AMQP_TEST_URL")
	if url == "" {
		t.Skip("AMQP_TEST_URL is not set")
	}
	return url
}

func TestConnection_RecoversAfterChannelException(t *testing.T) {
	conn, err := NewConnection(amqpURL(t), slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	defer conn.Close()

	ctx := context.Background()
	require.NoError(t, SetupTopology(ctx, conn))

	// 404 на passive declare закрывает канал, но не соединение.
	err = conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		_, err := ch.QueueDeclarePassive("pipeliner-missing-"+uuid.NewString(), false, false, false, false, nil)
		return err
	})
	require.Error(t, err)

	publisher := NewPublisher(conn, slog.New(slog.DiscardHandler))
	exec := &domain.Execution{ID: uuid.New(), Status: domain.ExecutionStatusSucceeded}

	assert.Eventually(t, func() bool {
		return publisher.PublishExecuted(ctx, exec) == nil
	}, 10*time.Second, 100*time.Millisecond, "publishing must work again after the channel is reopened")
}

func TestConnection_CloseStopsWatcher(t *testing.T) {
	conn, err := NewConnection(amqpURL(t), slog.New(slog.DiscardHandler))
	require.NoError(t, err)

	require.NoError(t, conn.Close())
	assert.ErrorIs(t, conn.WithChannel(context.Background(), func(*amqp.Channel) error { return nil }), ErrNoChannel)
}
