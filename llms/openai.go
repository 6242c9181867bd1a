package llms

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/asccclass/tripmate/prompts"
	"github.com/asccclass/tripmate/tools"
	"github.com/asccclass/tripmate/trip"
)

// chatMessage 是 OpenAI 相容 API 的訊息格式
type chatMessage struct {
	Role       string         `json:"role"`
	Content    string         `json:"content"`
	Name       string         `json:"name,omitempty"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
	ToolCalls  []chatToolCall `json:"tool_calls,omitempty"`
}

type chatToolCall struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"`
	Function chatToolCallFunc `json:"function"`
}

// chatToolCallFunc 的 Arguments 是 JSON 編碼字串 (OpenAI 慣例)，
// 解不開時只會讓該次工具呼叫失敗，不會中斷整個回合
type chatToolCallFunc struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Tools          []tools.Tool    `json:"tools,omitempty"`
	ToolChoice     string          `json:"tool_choice,omitempty"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// OpenAIProvider 對接任何 OpenAI 相容的 chat completions 端點
// (Groq 與 Hugging Face Router 都走這個格式，只差端點、模型與 JSON 模式支援)
type OpenAIProvider struct {
	name      string
	endpoint  string
	apiKey    string
	model     string
	maxTokens int
	// jsonFinal 為 true 時，第二輪加上 response_format=json_object 提高合法 JSON 機率
	jsonFinal bool

	registry *tools.Registry
	client   *resty.Client
}

func newOpenAIProvider(name, endpoint, apiKey, model string, maxTokens int, jsonFinal bool, reg *tools.Registry) *OpenAIProvider {
	return &OpenAIProvider{
		name:      name,
		endpoint:  endpoint,
		apiKey:    apiKey,
		model:     model,
		maxTokens: maxTokens,
		jsonFinal: jsonFinal,
		registry:  reg,
		client:    resty.New().SetTimeout(120 * time.Second),
	}
}

func (p *OpenAIProvider) Name() string { return p.name }

// GenerateTrip 驅動兩輪 Tool-Calling 流程
// 第一輪帶工具 Schema 讓模型決定要不要查資料，
// 有工具呼叫就逐一執行並把結果以 tool message 附回，再要第二輪的最終 JSON
func (p *OpenAIProvider) GenerateTrip(ctx context.Context, userPrompt string, enableFlights bool) string {
	messages := []chatMessage{
		{Role: "system", Content: prompts.SystemPrompt(enableFlights)},
		{Role: "user", Content: userPrompt},
	}

	first, err := p.chat(ctx, chatRequest{
		Model:       p.model,
		Messages:    messages,
		Tools:       p.registry.Definitions(),
		ToolChoice:  "auto",
		Temperature: 0.2,
		MaxTokens:   p.maxTokens,
	})
	if err != nil {
		return trip.Fallback("連線錯誤", fmt.Errorf("無法連接 %s: %v", p.name, err))
	}

	msg := first.Choices[0].Message
	if len(msg.ToolCalls) == 0 {
		return msg.Content
	}

	// 把 AI 的「我想呼叫工具」訊息加入對話歷史，工具結果靠 tool_call_id 對齊
	messages = append(messages, msg)
	for _, tc := range msg.ToolCalls {
		fmt.Printf("🛠️ [%s] 呼叫工具: %s\n", p.name, tc.Function.Name)
		result := p.registry.Dispatch(tc.Function.Name, tc.Function.Arguments)
		messages = append(messages, chatMessage{
			Role:       "tool",
			ToolCallID: tc.ID,
			Name:       tc.Function.Name,
			Content:    result,
		})
	}

	finalReq := chatRequest{
		Model:       p.model,
		Messages:    messages,
		Temperature: 0.2,
		MaxTokens:   p.maxTokens,
	}
	if p.jsonFinal {
		finalReq.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	final, err := p.chat(ctx, finalReq)
	if err != nil {
		return trip.Fallback("連線錯誤", fmt.Errorf("%s 最終回應失敗: %v", p.name, err))
	}
	return final.Choices[0].Message.Content
}

func (p *OpenAIProvider) chat(ctx context.Context, body chatRequest) (*chatResponse, error) {
	var out chatResponse

	resp, err := p.client.R().
		SetContext(ctx).
		SetAuthToken(p.apiKey).
		SetBody(body).
		SetResult(&out).
		Post(p.endpoint)
	if err != nil {
		return nil, err
	}

	if resp.IsError() {
		return nil, fmt.Errorf("API error (%d): %s", resp.StatusCode(), resp.String())
	}
	if out.Error != nil {
		return nil, fmt.Errorf("API error: %s", out.Error.Message)
	}
	if len(out.Choices) == 0 {
		return nil, errors.New("供應商回傳空的 choices")
	}
	return &out, nil
}
