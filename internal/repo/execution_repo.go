package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shaiso/Pipeliner/internal/domain"
)

// ExecutionRepo — репозиторий истории выполнений pipeline.
type ExecutionRepo struct {
	pool *pgxpool.Pool
}

// NewExecutionRepo создаёт новый ExecutionRepo.
func NewExecutionRepo(pool *pgxpool.Pool) *ExecutionRepo {
	return &ExecutionRepo{pool: pool}
}

// ExecutionFilter — параметры фильтрации истории.
type ExecutionFilter struct {
	Status domain.ExecutionStatus
	Limit  int
	Offset int
}

const executionColumns = `id, input, tier, status, result, error, num_nodes, num_edges, duration_ms, created_at`

// Create сохраняет запись о выполнении.
func (r *ExecutionRepo) Create(ctx context.Context, e *domain.Execution) error {
	query := `
		INSERT INTO executions (` + executionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.pool.Exec(ctx, query, insertArgs(e)...)
	if err != nil {
		return fmt.Errorf("insert execution: %w", err)
	}
	return nil
}

// insertArgs возвращает параметры INSERT в порядке executionColumns.
func insertArgs(e *domain.Execution) []any {
	return []any{
		e.ID,
		sanitizeText(e.Input),
		nullString(sanitizeText(e.Tier)),
		e.Status,
		nullString(sanitizeText(e.Result)),
		nullString(sanitizeText(e.Error)),
		e.NumNodes,
		e.NumEdges,
		e.DurationMs,
		e.CreatedAt,
	}
}

// GetByID возвращает запись по ID.
func (r *ExecutionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Execution, error) {
	query := `SELECT ` + executionColumns + ` FROM executions WHERE id = $1`
	return scanExecution(r.pool.QueryRow(ctx, query, id))
}

// List возвращает записи, новые первыми.
func (r *ExecutionRepo) List(ctx context.Context, filter ExecutionFilter) ([]domain.Execution, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}

	query := `
		SELECT ` + executionColumns + `
		FROM executions
		WHERE ($1::text IS NULL OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query,
		nullString(string(filter.Status)),
		filter.Limit,
		filter.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list executions: %w", err)
	}
	defer rows.Close()

	executions := make([]domain.Execution, 0)
	for rows.Next() {
		e, err := scanExecution(rows)
		if err != nil {
			return nil, err
		}
		executions = append(executions, *e)
	}
	return executions, rows.Err()
}

// scanExecution сканирует одну строку в Execution.
func scanExecution(row pgx.Row) (*domain.Execution, error) {
	var e domain.Execution
	var tier, result, execErr *string

	err := row.Scan(
		&e.ID,
		&e.Input,
		&tier,
		&e.Status,
		&result,
		&execErr,
		&e.NumNodes,
		&e.NumEdges,
		&e.DurationMs,
		&e.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan execution: %w", err)
	}

	e.Tier = deref(tier)
	e.Result = deref(result)
	e.Error = deref(execErr)

	return &e, nil
}

// sanitizeText готовит строку для колонки text: Postgres не принимает
// NUL и некорректный UTF-8, оба заменяются на U+FFFD.
func sanitizeText(s string) string {
	s = strings.ReplaceAll(s, "\x00", "\uFFFD")
	return strings.ToValidUTF8(s, "\uFFFD")
}

// nullString возвращает nil для пустой строки.
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
