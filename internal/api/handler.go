package api

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/shaiso/Pipeliner/internal/domain"
	"github.com/shaiso/Pipeliner/internal/executor"
	"github.com/shaiso/Pipeliner/internal/repo"
)

// PipelineExecutor выполняет pipeline. Реализация: *executor.Executor.
type PipelineExecutor interface {
	Execute(ctx context.Context, p *domain.Pipeline) executor.Result
}

// ExecutionStore хранит историю выполнений. Реализация: *repo.ExecutionRepo.
type ExecutionStore interface {
	Create(ctx context.Context, e *domain.Execution) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Execution, error)
	List(ctx context.Context, filter repo.ExecutionFilter) ([]domain.Execution, error)
}

// EventPublisher публикует события выполнений. Реализация: *mq.Publisher.
type EventPublisher interface {
	PublishExecuted(ctx context.Context, e *domain.Execution) error
}

// Handler — главный обработчик API с зависимостями.
type Handler struct {
	executor       PipelineExecutor
	history        ExecutionStore
	publisher      EventPublisher
	allowedOrigins []string
	limiter        *rate.Limiter
	logger         *slog.Logger

	// recording — фоновые записи истории и публикации событий.
	recording sync.WaitGroup
}

// Config — конфигурация для создания Handler.
type Config struct {
	Executor PipelineExecutor

	// History — история выполнений. nil — история выключена.
	History ExecutionStore

	// Publisher — публикация событий. nil — события выключены.
	Publisher EventPublisher

	// AllowedOrigins — разрешённые CORS origins ("*" — любые).
	AllowedOrigins []string

	// ExecuteRateLimit — лимит запросов в секунду на execute. 0 — без лимита.
	ExecuteRateLimit float64
	ExecuteRateBurst int

	Logger *slog.Logger
}

// NewHandler создаёт новый Handler.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var limiter *rate.Limiter
	if cfg.ExecuteRateLimit > 0 {
		burst := cfg.ExecuteRateBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.ExecuteRateLimit), burst)
	}

	return &Handler{
		executor:       cfg.Executor,
		history:        cfg.History,
		publisher:      cfg.Publisher,
		allowedOrigins: cfg.AllowedOrigins,
		limiter:        limiter,
		logger:         logger,
	}
}

// Wait дожидается завершения фоновой записи выполнений.
// Вызывается после http.Server.Shutdown.
func (h *Handler) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		h.recording.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
