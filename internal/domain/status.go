package domain

// ExecutionStatus — итог выполнения pipeline.
//
//	RESOLVING → CALLING_PRIMARY → SUCCEEDED
//	                            ↘ CALLING_FALLBACK → SUCCEEDED
//	                                               ↘ FAILED
//
// В историю попадают только терминальные статусы.
type ExecutionStatus string

const (
	// ExecutionStatusSucceeded — один из провайдеров вернул текст.
	ExecutionStatusSucceeded ExecutionStatus = "SUCCEEDED"

	// ExecutionStatusFailed — все провайдеры завершились ошибкой.
	ExecutionStatusFailed ExecutionStatus = "FAILED"
)

// IsTerminal возвращает true, если статус финальный.
func (s ExecutionStatus) IsTerminal() bool {
	switch s {
	case ExecutionStatusSucceeded, ExecutionStatusFailed:
		return true
	default:
		return false
	}
}
