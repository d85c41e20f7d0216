package executor

import "errors"

// Ошибки исполнителя.
var (
	// ErrNoTiers — не настроено ни одного провайдера.
	ErrNoTiers = errors.New("no text generation providers configured")

	// ErrNilGenerator — у уровня не задан генератор.
	ErrNilGenerator = errors.New("tier has no generator")

	// ErrPanic — во время выполнения произошла паника.
	ErrPanic = errors.New("execution panicked")
)
