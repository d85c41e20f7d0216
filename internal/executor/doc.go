// Package executor выполняет pipeline.
//
// # Обзор
//
// Executor — stateless компонент: выбирает входной текст из узлов
// pipeline и передаёт его внешнему сервису генерации текста.
// Структура графа (рёбра) при выполнении не используется.
//
// # Выбор входного текста
//
// ResolveInput делает до трёх проходов по узлам в порядке объявления:
// сначала ищет непустой data["text"], затем data["inputName"],
// затем data["label"]. Если ничего не найдено, используется текст
// по умолчанию.
//
// # Уровни провайдеров
//
// Провайдеры перебираются по порядку (primary, fallback, ...). Ошибка
// уровня логируется, и тот же входной текст уходит следующему уровню.
// Каждый уровень вызывается не более одного раза.
//
//	exec := executor.New(executor.Config{
//	    Tiers: []executor.Tier{
//	        {Name: "primary", Generator: flash},
//	        {Name: "fallback", Generator: pro},
//	    },
//	    Logger: logger,
//	})
//	res := exec.Execute(ctx, pipeline)
//
// Execute никогда не возвращает ошибку и не паникует: любая неудача
// превращается в Result с заполненным полем Err.
package executor
