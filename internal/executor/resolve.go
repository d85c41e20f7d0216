package executor

import (
	"encoding/json"
	"strconv"

	"github.com/shaiso/Pipeliner/internal/domain"
)

// DefaultPrompt — входной текст, если ни один узел его не содержит.
const DefaultPrompt = "Explain quantum physics like I'm 5"

// ResolveInput выбирает входной текст из узлов pipeline.
//
// Для каждого ключа (text, inputName, label) по порядку выполняется
// отдельный проход по всем узлам; первое truthy значение выигрывает.
// Поэтому text во втором узле важнее label в первом.
// Возвращает fallback, если подходящего значения нет.
func ResolveInput(p *domain.Pipeline, fallback string) string {
	if p == nil {
		return fallback
	}

	for _, key := range domain.InputKeys() {
		for _, node := range p.Nodes {
			if text, ok := truthyText(node.Data[key]); ok {
				return text
			}
		}
	}

	return fallback
}

// truthyText возвращает текстовое представление значения и признак истинности.
//
// Ложные значения: nil, "", false, 0, пустой массив, пустой объект.
// Числа выводятся без лишних нулей, массивы и объекты — компактным JSON.
func truthyText(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, val != ""
	case bool:
		return "true", val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), val != 0
	case int:
		return strconv.Itoa(val), val != 0
	case json.Number:
		f, err := val.Float64()
		return val.String(), err == nil && f != 0
	case []any:
		if len(val) == 0 {
			return "", false
		}
		return compactJSON(val)
	case map[string]any:
		if len(val) == 0 {
			return "", false
		}
		return compactJSON(val)
	default:
		return "", false
	}
}

func compactJSON(v any) (string, bool) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", false
	}
	return string(b), true
}
