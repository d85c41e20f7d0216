package api

import (
	"github.com/shaiso/Pipeliner/internal/domain"
	"github.com/shaiso/Pipeliner/internal/engine"
)

// Pipeline DTOs

// ParseResponse — ответ /pipelines/parse.
type ParseResponse = engine.ParseResult

// Execution DTOs

// ExecutionResponse — запись истории выполнений.
type ExecutionResponse struct {
	ID         string `json:"id"`
	Input      string `json:"input"`
	Tier       string `json:"tier,omitempty"`
	Status     string `json:"status"`
	Result     string `json:"result,omitempty"`
	Error      string `json:"error,omitempty"`
	NumNodes   int    `json:"num_nodes"`
	NumEdges   int    `json:"num_edges"`
	DurationMs int64  `json:"duration_ms"`
	CreatedAt  string `json:"created_at"`
}

// ExecutionFromDomain конвертирует domain.Execution в ExecutionResponse.
func ExecutionFromDomain(e domain.Execution) ExecutionResponse {
	return ExecutionResponse{
		ID:         e.ID.String(),
		Input:      e.Input,
		Tier:       e.Tier,
		Status:     string(e.Status),
		Result:     e.Result,
		Error:      e.Error,
		NumNodes:   e.NumNodes,
		NumEdges:   e.NumEdges,
		DurationMs: e.DurationMs,
		CreatedAt:  e.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	}
}

// ExecutionsFromDomain конвертирует список записей.
func ExecutionsFromDomain(list []domain.Execution) []ExecutionResponse {
	out := make([]ExecutionResponse, len(list))
	for i, e := range list {
		out[i] = ExecutionFromDomain(e)
	}
	return out
}
