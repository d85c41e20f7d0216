package engine

import "github.com/shaiso/Pipeliner/internal/domain"

// ParseResult — результат анализа структуры pipeline.
type ParseResult struct {
	// NumNodes — количество объявленных узлов (не вершин графа).
	NumNodes int `json:"num_nodes"`

	// NumEdges — количество объявленных рёбер.
	NumEdges int `json:"num_edges"`

	// IsDAG — true, если граф не содержит циклов.
	IsDAG bool `json:"is_dag"`
}

// Parse анализирует pipeline: считает узлы и рёбра и проверяет ацикличность.
//
// Функция чистая и тотальная: ошибок не бывает, повторный вызов
// на том же pipeline даёт тот же результат.
func Parse(p *domain.Pipeline) ParseResult {
	if p == nil {
		return ParseResult{IsDAG: true}
	}

	g := BuildGraph(p)

	return ParseResult{
		NumNodes: len(p.Nodes),
		NumEdges: len(p.Edges),
		IsDAG:    !g.HasCycle(),
	}
}
