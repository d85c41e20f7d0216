package domain

// Pipeline — граф пользовательского pipeline: узлы и рёбра.
//
// Ссылочная целостность не проверяется: ребро может ссылаться на узел,
// которого нет в Nodes, а ID узлов могут повторяться.
// Pipeline строится заново на каждый запрос и не разделяется между ними.
type Pipeline struct {
	// Nodes — узлы в порядке объявления.
	Nodes []Node `json:"nodes"`

	// Edges — рёбра в порядке объявления.
	Edges []Edge `json:"edges"`
}

// Node — узел pipeline.
type Node struct {
	// ID — идентификатор узла (уникальность подразумевается, но не проверяется).
	ID string `json:"id"`

	// Type — тег типа узла, ядро его не интерпретирует.
	Type string `json:"type"`

	// Data — произвольные атрибуты узла.
	// Исполнитель читает только ключи text, inputName и label.
	Data map[string]any `json:"data"`
}

// Edge — направленное ребро source → target.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// Ключи Data, из которых исполнитель берёт входной текст (в порядке приоритета).
const (
	DataKeyText      = "text"
	DataKeyInputName = "inputName"
	DataKeyLabel     = "label"
)

// InputKeys возвращает ключи входного текста в порядке приоритета.
func InputKeys() []string {
	return []string{DataKeyText, DataKeyInputName, DataKeyLabel}
}
