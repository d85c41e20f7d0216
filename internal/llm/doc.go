// Package llm содержит клиентов внешних сервисов генерации текста.
//
// Поддерживаемые backend'ы:
//   - gemini — Google Gemini через langchaingo (llms/googleai)
//   - openai — OpenAI-совместимый API через go-openai
//
// Клиенты создаются лениво, при первом вызове Generate. Отсутствующий
// API-ключ или неизвестный backend не мешают старту процесса и
// возвращаются как *ProviderError при первом использовании.
package llm
