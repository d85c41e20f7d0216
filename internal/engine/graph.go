package engine

import "github.com/shaiso/Pipeliner/internal/domain"

// Graph — направленный граф с вершинами-строками.
//
// Вершины хранятся в порядке добавления, поэтому обход детерминирован.
// Кратные дуги допускаются и на ацикличность не влияют.
type Graph struct {
	order   []string
	arcs    map[string][]string
	numArcs int
}

// NewGraph создаёт пустой граф.
func NewGraph() *Graph {
	return &Graph{
		order: make([]string, 0),
		arcs:  make(map[string][]string),
	}
}

// BuildGraph строит граф из pipeline.
//
// Сначала добавляются все объявленные узлы, затем дуги source → target.
// Концы рёбер, которых нет среди узлов, становятся новыми вершинами,
// поэтому VertexCount может быть больше len(p.Nodes).
func BuildGraph(p *domain.Pipeline) *Graph {
	g := NewGraph()
	if p == nil {
		return g
	}

	for _, node := range p.Nodes {
		g.AddVertex(node.ID)
	}
	for _, edge := range p.Edges {
		g.AddArc(edge.Source, edge.Target)
	}

	return g
}

// AddVertex добавляет вершину. Повторное добавление ничего не делает.
func (g *Graph) AddVertex(id string) {
	if _, ok := g.arcs[id]; ok {
		return
	}
	g.arcs[id] = nil
	g.order = append(g.order, id)
}

// AddArc добавляет дугу from → to, создавая отсутствующие вершины.
func (g *Graph) AddArc(from, to string) {
	g.AddVertex(from)
	g.AddVertex(to)
	g.arcs[from] = append(g.arcs[from], to)
	g.numArcs++
}

// HasVertex проверяет наличие вершины.
func (g *Graph) HasVertex(id string) bool {
	_, ok := g.arcs[id]
	return ok
}

// VertexCount возвращает количество вершин.
func (g *Graph) VertexCount() int {
	return len(g.order)
}

// ArcCount возвращает количество дуг с учётом кратных.
func (g *Graph) ArcCount() int {
	return g.numArcs
}

// Vertices возвращает вершины в порядке добавления.
func (g *Graph) Vertices() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Successors возвращает концы исходящих дуг вершины.
func (g *Graph) Successors(id string) []string {
	succ := g.arcs[id]
	out := make([]string, len(succ))
	copy(out, succ)
	return out
}

// vertexState — состояние вершины при обходе в глубину.
type vertexState uint8

const (
	stateUnvisited vertexState = iota
	stateInProgress
	stateDone
)

// HasCycle проверяет граф на наличие цикла обходом в глубину.
//
// Дуга в вершину со статусом in-progress — обратная дуга, то есть цикл.
// Петля (from == to) — цикл длины 1. Обходятся все компоненты связности.
// Сложность O(V + E).
func (g *Graph) HasCycle() bool {
	state := make(map[string]vertexState, len(g.order))

	var visit func(id string) bool
	visit = func(id string) bool {
		state[id] = stateInProgress
		for _, next := range g.arcs[id] {
			switch state[next] {
			case stateInProgress:
				return true
			case stateUnvisited:
				if visit(next) {
					return true
				}
			}
		}
		state[id] = stateDone
		return false
	}

	for _, id := range g.order {
		if state[id] == stateUnvisited && visit(id) {
			return true
		}
	}

	return false
}
