package domain

import (
	"time"

	"github.com/google/uuid"
)

// Execution — запись истории об одном вызове execute.
//
// Ядро состояние не хранит; запись формирует API-слой после того,
// как ответ уже получен, и сохраняет её, если история включена.
type Execution struct {
	// ID — уникальный идентификатор выполнения.
	ID uuid.UUID `json:"id"`

	// Input — текст, выбранный из узлов (или текст по умолчанию).
	Input string `json:"input"`

	// Tier — имя уровня провайдера, вернувшего результат. Пусто при ошибке.
	Tier string `json:"tier,omitempty"`

	// Status — итог выполнения.
	Status ExecutionStatus `json:"status"`

	// Result — сгенерированный текст.
	Result string `json:"result,omitempty"`

	// Error — описание ошибки.
	Error string `json:"error,omitempty"`

	// NumNodes и NumEdges — размеры присланного pipeline.
	NumNodes int `json:"num_nodes"`
	NumEdges int `json:"num_edges"`

	// DurationMs — длительность выполнения в миллисекундах.
	DurationMs int64 `json:"duration_ms"`

	// CreatedAt — время завершения выполнения.
	CreatedAt time.Time `json:"created_at"`
}
