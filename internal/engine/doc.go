// Package engine содержит валидатор графа pipeline.
//
// Включает:
//   - graph.go  — модель направленного графа и поиск циклов (DFS)
//   - dag.go    — Parse: подсчёт узлов/рёбер и проверка ацикличности
//   - parser.go — декодирование и валидация входного JSON на границе
//   - render.go — экспорт графа в Graphviz DOT
//
// Parse — чистая функция: для любого корректно сформированного Pipeline
// она возвращает результат и никогда не возвращает ошибку.
// Некорректный по форме JSON отсекается раньше, в DecodePipeline.
package engine
