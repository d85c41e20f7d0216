package engine

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"

	"github.com/shaiso/Pipeliner/internal/domain"
)

// RenderDOT записывает граф pipeline в формате Graphviz DOT.
//
// Вершины строятся так же, как в Parse: объявленные узлы, затем концы
// рёбер, которых нет среди узлов. Подпись вершины — "id (type)".
// Кратные рёбра рисуются один раз. draw.DOT пишет имена и атрибуты
// в кавычках как есть, поэтому все строки экранируются заранее.
func RenderDOT(p *domain.Pipeline, w io.Writer) error {
	g := graph.New(graph.StringHash, graph.Directed())

	if p != nil {
		for _, node := range p.Nodes {
			err := g.AddVertex(dotEscape(node.ID), graph.VertexAttribute("label", dotEscape(nodeLabel(node))))
			if err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
				return fmt.Errorf("add vertex %s: %w", node.ID, err)
			}
		}

		for _, edge := range p.Edges {
			for _, id := range []string{edge.Source, edge.Target} {
				err := g.AddVertex(dotEscape(id), graph.VertexAttribute("style", "dashed"))
				if err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
					return fmt.Errorf("add vertex %s: %w", id, err)
				}
			}

			err := g.AddEdge(dotEscape(edge.Source), dotEscape(edge.Target), graph.EdgeAttribute("id", dotEscape(edge.ID)))
			if err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
				return fmt.Errorf("add edge %s: %w", edge.ID, err)
			}
		}
	}

	if err := draw.DOT(g, w); err != nil {
		return fmt.Errorf("draw dot: %w", err)
	}

	return nil
}

func nodeLabel(node domain.Node) string {
	if node.Type == "" {
		return node.ID
	}
	return fmt.Sprintf("%s (%s)", node.ID, node.Type)
}

// dotReplacer экранирует строку для DOT-строки в двойных кавычках.
var dotReplacer = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`)

// dotEscape экранирует обратный слэш, кавычку и переводы строк.
// Отображение инъективно: разные ID остаются разными вершинами.
func dotEscape(s string) string {
	return dotReplacer.Replace(s)
}
