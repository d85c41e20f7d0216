package api

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/shaiso/Pipeliner/internal/domain"
	"github.com/shaiso/Pipeliner/internal/repo"
	"github.com/shaiso/Pipeliner/internal/telemetry"
)

// maxListLimit — максимальный размер страницы истории.
const maxListLimit = 500

// ListExecutions возвращает историю выполнений.
// GET /pipelines/executions?status=...&limit=...&offset=...
func (h *Handler) ListExecutions(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		Unavailable(w, "execution history is disabled")
		return
	}

	filter := repo.ExecutionFilter{}
	query := r.URL.Query()

	if status := query.Get("status"); status != "" {
		s := domain.ExecutionStatus(status)
		if !s.IsTerminal() {
			BadRequest(w, "invalid status")
			return
		}
		filter.Status = s
	}

	limit, ok := parseIntParam(query.Get("limit"), 50)
	if !ok || limit <= 0 {
		BadRequest(w, "invalid limit")
		return
	}
	filter.Limit = min(limit, maxListLimit)

	offset, ok := parseIntParam(query.Get("offset"), 0)
	if !ok || offset < 0 {
		BadRequest(w, "invalid offset")
		return
	}
	filter.Offset = offset

	list, err := h.history.List(r.Context(), filter)
	if HandleRepoError(w, telemetry.FromContext(r.Context()), err, "") {
		return
	}

	result := ExecutionsFromDomain(list)
	List(w, result, len(result))
}

// GetExecution возвращает запись истории по ID.
// GET /pipelines/executions/{id}
func (h *Handler) GetExecution(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		Unavailable(w, "execution history is disabled")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid execution id")
		return
	}

	exec, err := h.history.GetByID(r.Context(), id)
	if HandleRepoError(w, telemetry.FromContext(r.Context()), err, "execution not found") {
		return
	}

	Success(w, ExecutionFromDomain(*exec))
}

// parseIntParam разбирает целочисленный query-параметр.
// Пустое значение даёт def.
func parseIntParam(value string, def int) (int, bool) {
	if value == "" {
		return def, true
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}
	return n, true
}
