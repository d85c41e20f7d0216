// Package cli реализует инструмент командной строки Pipeliner.
//
// # Обзор
//
// CLI — клиентская утилита для Pipeliner API. Pipeline читается из
// JSON-файла (или stdin, если указан "-") и отправляется в API.
// Команды parse и render с флагом --offline работают без сервера,
// напрямую через пакет engine.
//
// # Ключевые компоненты
//
// ## Client
//
// HTTP-клиент для Pipeliner API. Ответы parse/execute приходят без
// обёртки data, ответы истории выполнений обёрнуты в DataResponse/ListResponse.
//
//	client := cli.NewClient("http://localhost:8080")
//	res, err := client.Parse(raw)
//
// ## Output
//
// Форматирование вывода. Поддерживает два режима:
//   - Таблицы (text/tabwriter) — по умолчанию
//   - JSON — с флагом --json
//
// Данные выводятся в stdout, сообщения (Success/Error) — в stderr.
// Это позволяет использовать pipe: pipeliner render p.json | dot -Tpng
//
// ## Commands
//
//   - parse FILE [--offline]
//   - execute FILE — код выхода 1, если API вернул {"error": ...}
//   - render FILE [--offline]
//   - executions: list, show
//
// Каждая команда создаётся через фабричную функцию (NewParseCmd и т.д.),
// принимающую clientFn и outputFn — замыкания для ленивого создания
// Client и Output после парсинга PersistentFlags.
package cli
