package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/shaiso/Pipeliner/internal/domain"
	"github.com/shaiso/Pipeliner/internal/telemetry"
)

// Generator — интерфейс сервиса генерации текста.
//
// Реализации: llm.GeminiClient, llm.OpenAIClient.
// Любая ошибка (квота, авторизация, сеть, конфигурация) считается
// отказом уровня и ведёт к переходу на следующий уровень.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Tier — именованный уровень провайдера.
type Tier struct {
	// Name — имя уровня для логов и метрик (primary, fallback).
	Name string

	// Generator — провайдер уровня.
	Generator Generator
}

// Config — конфигурация для создания Executor.
type Config struct {
	// Tiers — уровни провайдеров в порядке перебора.
	Tiers []Tier

	// DefaultPrompt — входной текст по умолчанию. Пусто — DefaultPrompt пакета.
	DefaultPrompt string

	Logger *slog.Logger
}

// Executor — исполнитель pipeline.
type Executor struct {
	tiers         []Tier
	defaultPrompt string
	logger        *slog.Logger
	tracer        trace.Tracer
}

// New создаёт Executor.
func New(cfg Config) *Executor {
	if cfg.DefaultPrompt == "" {
		cfg.DefaultPrompt = DefaultPrompt
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	tiers := make([]Tier, len(cfg.Tiers))
	copy(tiers, cfg.Tiers)

	return &Executor{
		tiers:         tiers,
		defaultPrompt: cfg.DefaultPrompt,
		logger:        cfg.Logger,
		tracer:        otel.Tracer(telemetry.TracerName),
	}
}

// Result — результат выполнения pipeline.
//
// В JSON сериализуется ровно в {"result": ...} или {"error": ...}.
type Result struct {
	// Output — сгенерированный текст.
	Output string

	// Err — описание ошибки. Непусто, если все уровни отказали.
	Err string

	// Input — выбранный входной текст.
	Input string

	// Tier — имя уровня, вернувшего Output.
	Tier string
}

// Failed возвращает true, если выполнение завершилось ошибкой.
func (r Result) Failed() bool {
	return r.Err != ""
}

// Status возвращает терминальный статус выполнения.
func (r Result) Status() domain.ExecutionStatus {
	if r.Failed() {
		return domain.ExecutionStatusFailed
	}
	return domain.ExecutionStatusSucceeded
}

// MarshalJSON реализует json.Marshaler.
func (r Result) MarshalJSON() ([]byte, error) {
	if r.Failed() {
		return json.Marshal(struct {
			Error string `json:"error"`
		}{r.Err})
	}
	return json.Marshal(struct {
		Result string `json:"result"`
	}{r.Output})
}

// Execute выбирает входной текст и передаёт его уровням провайдеров.
//
// Никогда не паникует и не возвращает ошибку: любой отказ
// превращается в Result с заполненным Err.
func (e *Executor) Execute(ctx context.Context, p *domain.Pipeline) (res Result) {
	ctx, span := e.tracer.Start(ctx, "executor.Execute")
	defer span.End()

	logger := e.loggerFrom(ctx)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("execution panicked",
				"panic", r,
				"stack", string(debug.Stack()),
			)
			res = failed(res.Input, fmt.Errorf("%w: %v", ErrPanic, r))
			span.SetStatus(codes.Error, res.Err)
			telemetry.ExecutionsTotal.WithLabelValues(string(domain.ExecutionStatusFailed)).Inc()
		}
	}()

	res.Input = ResolveInput(p, e.defaultPrompt)
	span.SetAttributes(attribute.Int("pipeline.input_length", len(res.Input)))

	text, tier, err := e.generate(ctx, logger, res.Input)
	if err != nil {
		logger.Error("all provider tiers failed", "error", err, "tiers", len(e.tiers))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		telemetry.ExecutionsTotal.WithLabelValues(string(domain.ExecutionStatusFailed)).Inc()
		return failed(res.Input, err)
	}

	telemetry.ExecutionsTotal.WithLabelValues(string(domain.ExecutionStatusSucceeded)).Inc()
	span.SetAttributes(attribute.String("provider.tier", tier))

	res.Output = text
	res.Tier = tier
	return res
}

// generate перебирает уровни до первого успеха.
// Возвращает ошибку последнего уровня, если отказали все.
func (e *Executor) generate(ctx context.Context, logger *slog.Logger, input string) (string, string, error) {
	if len(e.tiers) == 0 {
		return "", "", ErrNoTiers
	}

	var lastErr error
	for i, tier := range e.tiers {
		text, err := e.call(ctx, tier, input)
		if err == nil {
			if i > 0 {
				logger.Info("fallback tier succeeded", "tier", tier.Name)
			}
			return text, tier.Name, nil
		}

		lastErr = err
		if i < len(e.tiers)-1 {
			logger.Warn("provider tier failed, trying next",
				"tier", tier.Name,
				"next", e.tiers[i+1].Name,
				"error", err,
			)
		}
	}

	return "", "", lastErr
}

// call вызывает провайдер одного уровня. Паника провайдера считается его отказом.
func (e *Executor) call(ctx context.Context, tier Tier, input string) (text string, err error) {
	ctx, span := e.tracer.Start(ctx, "provider.Generate",
		trace.WithAttributes(attribute.String("provider.tier", tier.Name)))
	defer span.End()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: tier %s: %v", ErrPanic, tier.Name, r)
		}

		telemetry.ProviderCallDuration.WithLabelValues(tier.Name).Observe(time.Since(start).Seconds())
		if err != nil {
			telemetry.ProviderCallsTotal.WithLabelValues(tier.Name, telemetry.OutcomeFailure).Inc()
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return
		}
		telemetry.ProviderCallsTotal.WithLabelValues(tier.Name, telemetry.OutcomeSuccess).Inc()
	}()

	if tier.Generator == nil {
		return "", fmt.Errorf("%w: %s", ErrNilGenerator, tier.Name)
	}

	return tier.Generator.Generate(ctx, input)
}

// loggerFrom возвращает логгер запроса из контекста или логгер исполнителя.
func (e *Executor) loggerFrom(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(telemetry.CtxLogger).(*slog.Logger); ok {
		return logger
	}
	return e.logger
}

// failed формирует Result с ошибкой. Пустое описание заменяется общим.
func failed(input string, err error) Result {
	msg := err.Error()
	if msg == "" {
		msg = "execution failed"
	}
	return Result{Err: msg, Input: input}
}
