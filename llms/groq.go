package llms

import "github.com/asccclass/tripmate/tools"

const (
	groqEndpoint = "https://api.groq.com/openai/v1/chat/completions"

	// Llama 3.3 70B 的邏輯最強，JSON 格式也最穩
	defaultGroqModel = "llama-3.3-70b-versatile"
)

// NewGroq 建立 Groq (LPU) 後端
// Groq 支援 response_format，因此第二輪開啟 JSON 模式
func NewGroq(apiKey, model string, reg *tools.Registry) *OpenAIProvider {
	if model == "" {
		model = defaultGroqModel
	}
	return newOpenAIProvider("Groq", groqEndpoint, apiKey, model, 4096, true, reg)
}
