package telemetry

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Форматы вывода логов.
const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

// ParseLevel разбирает уровень логирования (DEBUG, INFO, WARN, ERROR, без учёта регистра).
// Второе значение false, если уровень неизвестен.
func ParseLevel(s string) (slog.Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug, true
	case "", "INFO":
		return slog.LevelInfo, true
	case "WARN", "WARNING":
		return slog.LevelWarn, true
	case "ERROR":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// NewLogger создаёт логгер, пишущий в w.
// format text — человекочитаемый вывод, иначе JSON.
// На уровне DEBUG в записи добавляется источник.
func NewLogger(w io.Writer, level slog.Level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= slog.LevelDebug,
	}

	if strings.EqualFold(format, LogFormatText) {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// SetupLogger создаёт логгер в stdout и делает его глобальным.
// Неизвестный уровень трактуется как INFO.
func SetupLogger(level, format string) *slog.Logger {
	lvl, _ := ParseLevel(level)

	logger := NewLogger(os.Stdout, lvl, format)
	slog.SetDefault(logger)

	return logger
}

// Ключи контекста для передачи данных в логгер.
type ctxKey string

const (
	// CtxLogger — ключ для логгера в контексте.
	CtxLogger ctxKey = "logger"
)

// WithLogger добавляет логгер в контекст.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, CtxLogger, logger)
}

// FromContext извлекает логгер из контекста.
// Если логгер не найден, возвращает глобальный.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(CtxLogger).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// WithRequestID возвращает логгер с добавленным request_id.
func WithRequestID(logger *slog.Logger, requestID string) *slog.Logger {
	return logger.With("request_id", requestID)
}

// WithExecutionID возвращает логгер с добавленным execution_id.
func WithExecutionID(logger *slog.Logger, executionID string) *slog.Logger {
	return logger.With("execution_id", executionID)
}
