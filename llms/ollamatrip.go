package llms

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ollama/ollama/api"

	"github.com/asccclass/tripmate/llms/ollama"
	"github.com/asccclass/tripmate/prompts"
	"github.com/asccclass/tripmate/tools"
	"github.com/asccclass/tripmate/trip"
)

// OllamaProvider 透過本機或遠端的 Ollama 伺服器生成行程
// 本機與遠端 (Cloudflare Tunnel) 共用同一套邏輯，只差位址與 Token
type OllamaProvider struct {
	name     string
	client   *ollama.Client
	model    string
	registry *tools.Registry
}

// NewOllama 建立 Ollama 後端，model 為空時使用 llama3.1
func NewOllama(name, host, token, model string, reg *tools.Registry) *OllamaProvider {
	if model == "" {
		model = "llama3.1:8b"
	}
	return &OllamaProvider{
		name:     name,
		client:   ollama.NewClient(host, token),
		model:    model,
		registry: reg,
	}
}

func (p *OllamaProvider) Name() string { return p.name }

func (p *OllamaProvider) GenerateTrip(ctx context.Context, userPrompt string, enableFlights bool) string {
	messages := []ollama.Message{
		{Role: "system", Content: prompts.SystemPrompt(enableFlights)},
		{Role: "user", Content: userPrompt},
	}

	fmt.Printf("🚀 [%s] 連線至 %s (Model: %s)...\n", p.name, p.client.BaseURL(), p.model)

	first, err := p.client.Chat(ctx, ollama.ChatRequest{
		Model:    p.model,
		Messages: messages,
		Tools:    toOllamaTools(p.registry.Definitions()),
		Options:  ollama.Options{Temperature: 0.1},
	})
	if err != nil {
		return trip.Fallback("連線錯誤", fmt.Errorf("無法連接 Ollama: %v", err))
	}

	if len(first.ToolCalls) == 0 {
		return first.Content
	}

	messages = append(messages, first)
	for _, tc := range first.ToolCalls {
		fmt.Printf("🛠️ [%s] 呼叫工具: %s\n", p.name, tc.Function.Name)

		// Ollama 的參數已是解析過的物件，重新編碼成 JSON 字串餵給註冊表
		argsJSON, _ := json.Marshal(tc.Function.Arguments)
		result := p.registry.Dispatch(tc.Function.Name, string(argsJSON))
		messages = append(messages, ollama.Message{Role: "tool", Content: result})
	}

	// 第二輪用 format=json 強制合法 JSON 輸出
	final, err := p.client.Chat(ctx, ollama.ChatRequest{
		Model:    p.model,
		Messages: messages,
		Format:   "json",
		Options:  ollama.Options{Temperature: 0.1},
	})
	if err != nil {
		return trip.Fallback("連線錯誤", fmt.Errorf("Ollama 最終回應失敗: %v", err))
	}
	return final.Content
}

// toOllamaTools 把共用的工具 Schema 轉成 Ollama SDK 的型別
func toOllamaTools(defs []tools.Tool) []api.Tool {
	out := make([]api.Tool, 0, len(defs))
	for _, d := range defs {
		var props api.ToolPropertiesMap
		raw, _ := json.Marshal(d.Function.Parameters.Properties)
		_ = json.Unmarshal(raw, &props)

		out = append(out, api.Tool{
			Type: "function",
			Function: api.ToolFunction{
				Name:        d.Function.Name,
				Description: d.Function.Description,
				Parameters: api.ToolFunctionParameters{
					Type:       "object",
					Properties: &props,
					Required:   d.Function.Parameters.Required,
				},
			},
		})
	}
	return out
}
