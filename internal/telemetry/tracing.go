package telemetry

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// TracerName — имя tracer'а для спанов сервиса.
const TracerName = "github.com/shaiso/Pipeliner"

// SetupTracing включает экспорт спанов в w (обычно os.Stderr).
//
// Если enabled=false, глобальный провайдер остаётся no-op, а спаны
// создаются без накладных расходов. Возвращает функцию остановки.
func SetupTracing(enabled bool, w io.Writer) (func(context.Context) error, error) {
	if !enabled {
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return nil, fmt.Errorf("create stdout exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(tp)

	return tp.Shutdown, nil
}
