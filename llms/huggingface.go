package llms

import "github.com/asccclass/tripmate/tools"

const (
	hfEndpoint = "https://router.huggingface.co/v1/chat/completions"

	// Qwen 2.5 72B 的工具呼叫與中文能力都不錯
	defaultHFModel = "Qwen/Qwen2.5-72B-Instruct"
)

// NewHuggingFace 建立 Hugging Face Inference 後端
// 走 HF Router 的 OpenAI 相容介面；Router 不保證支援 response_format，
// JSON 合規只能靠 Prompt 約束
func NewHuggingFace(token, model string, reg *tools.Registry) *OpenAIProvider {
	if model == "" {
		model = defaultHFModel
	}
	return newOpenAIProvider("Hugging Face", hfEndpoint, token, model, 4000, false, reg)
}
