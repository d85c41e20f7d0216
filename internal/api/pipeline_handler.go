package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/Pipeliner/internal/domain"
	"github.com/shaiso/Pipeliner/internal/engine"
	"github.com/shaiso/Pipeliner/internal/telemetry"
)

// maxBodyBytes — предельный размер тела запроса с pipeline.
const maxBodyBytes = 1 << 20

// recordTimeout — время на запись истории и публикацию события.
const recordTimeout = 5 * time.Second

// ParsePipeline считает узлы и рёбра и проверяет граф на ацикличность.
// POST /pipelines/parse
func (h *Handler) ParsePipeline(w http.ResponseWriter, r *http.Request) {
	p, ok := h.decodePipeline(w, r)
	if !ok {
		return
	}

	res := engine.Parse(p)
	telemetry.PipelinesParsed.WithLabelValues(strconv.FormatBool(res.IsDAG)).Inc()

	JSON(w, http.StatusOK, ParseResponse(res))
}

// ExecutePipeline выполняет pipeline через провайдеров генерации.
// Ответ всегда 200: {"result": ...} или {"error": ...}.
// POST /pipelines/execute
func (h *Handler) ExecutePipeline(w http.ResponseWriter, r *http.Request) {
	p, ok := h.decodePipeline(w, r)
	if !ok {
		return
	}

	start := time.Now()
	res := h.executor.Execute(r.Context(), p)
	duration := time.Since(start)

	JSON(w, http.StatusOK, res)

	if h.history == nil && h.publisher == nil {
		return
	}

	exec := &domain.Execution{
		ID:         uuid.New(),
		Input:      res.Input,
		Tier:       res.Tier,
		Status:     res.Status(),
		Result:     res.Output,
		Error:      res.Err,
		NumNodes:   len(p.Nodes),
		NumEdges:   len(p.Edges),
		DurationMs: duration.Milliseconds(),
		CreatedAt:  time.Now().UTC(),
	}

	// Запись идёт в фоне, Wait дожидается её при остановке.
	ctx := r.Context()
	h.recording.Add(1)
	go func() {
		defer h.recording.Done()
		h.record(ctx, exec)
	}()
}

// RenderPipeline возвращает pipeline в формате Graphviz DOT.
// POST /pipelines/render
func (h *Handler) RenderPipeline(w http.ResponseWriter, r *http.Request) {
	p, ok := h.decodePipeline(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := engine.RenderDOT(p, &buf); err != nil {
		InternalError(w, telemetry.FromContext(r.Context()), err)
		return
	}

	Text(w, "text/vnd.graphviz; charset=utf-8", buf.Bytes())
}

// decodePipeline читает и валидирует тело запроса.
// При ошибке пишет ответ сам и возвращает false.
func (h *Handler) decodePipeline(w http.ResponseWriter, r *http.Request) (*domain.Pipeline, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			Error(w, http.StatusRequestEntityTooLarge, ErrCodeBadRequest, "request body too large")
			return nil, false
		}
		BadRequest(w, "failed to read request body")
		return nil, false
	}

	p, err := engine.DecodePipeline(body)
	switch {
	case err == nil:
		return p, true
	case errors.Is(err, engine.ErrInvalidInput):
		ValidationFailed(w, err.Error())
	default:
		BadRequest(w, err.Error())
	}
	return nil, false
}

// record сохраняет выполнение в историю и публикует событие.
// Ошибки только логируются: ответ клиенту уже отправлен.
// Контекст запроса отвязывается от отмены, значения (логгер) сохраняются.
func (h *Handler) record(ctx context.Context, exec *domain.Execution) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()

	logger := telemetry.WithExecutionID(telemetry.FromContext(ctx), exec.ID.String())

	if h.history != nil {
		if err := h.history.Create(ctx, exec); err != nil {
			logger.Error("failed to save execution", "error", err)
		}
	}

	if h.publisher != nil {
		if err := h.publisher.PublishExecuted(ctx, exec); err != nil {
			logger.Warn("failed to publish execution event", "error", err)
		}
	}
}
