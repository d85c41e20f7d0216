package engine

import (
	"errors"
	"strings"
)

// Ошибки входных данных.
var (
	// ErrMalformedJSON — тело запроса не является корректным JSON.
	ErrMalformedJSON = errors.New("malformed JSON")

	// ErrInvalidInput — JSON корректен, но не соответствует схеме Pipeline.
	ErrInvalidInput = errors.New("invalid pipeline input")
)

// InputError — ошибка валидации входного pipeline с контекстом.
type InputError struct {
	Fields  []string // пути полей, вызвавших ошибку (nodes[0].id)
	Message string   // описание ошибки
	Err     error    // базовая ошибка
}

// Error реализует интерфейс error.
func (e *InputError) Error() string {
	if len(e.Fields) > 0 {
		return e.Message + ": " + strings.Join(e.Fields, ", ")
	}
	return e.Message
}

// Unwrap возвращает базовую ошибку.
func (e *InputError) Unwrap() error {
	return e.Err
}

// NewInputError создаёт новую ошибку входных данных.
func NewInputError(message string, err error, fields ...string) *InputError {
	return &InputError{
		Fields:  fields,
		Message: message,
		Err:     err,
	}
}
