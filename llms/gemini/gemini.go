// Package gemini 對接 Google 的 Gemini 模型 (Function Calling 手動模式)
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/asccclass/tripmate/prompts"
	"github.com/asccclass/tripmate/tools"
	"github.com/asccclass/tripmate/trip"
)

// Service 透過 generative-ai-go SDK 驅動 Gemini 的兩輪 Tool-Calling 流程
type Service struct {
	client   *genai.Client
	model    *genai.GenerativeModel
	registry *tools.Registry
}

// New 建立 Gemini 後端，modelName 為空時使用 gemini-2.5-flash
func New(ctx context.Context, apiKey, modelName string, reg *tools.Registry) (*Service, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}
	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.2)
	model.Tools = []*genai.Tool{{FunctionDeclarations: toDeclarations(reg.Definitions())}}

	return &Service{client: client, model: model, registry: reg}, nil
}

// Close 釋放 SDK 資源
func (s *Service) Close() {
	s.client.Close()
}

func (s *Service) Name() string { return "Google Gemini" }

// GenerateTrip 走一個 Chat Session：第一則訊息帶完整指令，
// 模型回 FunctionCall 時逐一執行並以 FunctionResponse 回覆，取第二則回應的文字
// Gemini 沒有獨立的 system role，規則直接併進第一則訊息 (SDK 的慣用做法)
func (s *Service) GenerateTrip(ctx context.Context, userPrompt string, enableFlights bool) string {
	session := s.model.StartChat()
	full := prompts.SystemPrompt(enableFlights) + "\n\n" + userPrompt

	resp, err := session.SendMessage(ctx, genai.Text(full))
	if err != nil {
		return trip.Fallback("連線錯誤", fmt.Errorf("Gemini 呼叫失敗: %v", err))
	}

	calls := functionCalls(resp)
	if len(calls) == 0 {
		return responseText(resp)
	}

	// Gemini 以名稱對齊工具結果，回覆順序必須與請求順序一致
	parts := make([]genai.Part, 0, len(calls))
	for _, fc := range calls {
		fmt.Printf("🛠️ [Gemini] 呼叫工具: %s\n", fc.Name)

		// Gemini 的參數是解析過的 map，重新編碼後交給註冊表
		argsJSON, _ := json.Marshal(fc.Args)
		result := s.registry.Dispatch(fc.Name, string(argsJSON))
		parts = append(parts, genai.FunctionResponse{
			Name:     fc.Name,
			Response: map[string]any{"content": result},
		})
	}

	final, err := session.SendMessage(ctx, parts...)
	if err != nil {
		return trip.Fallback("連線錯誤", fmt.Errorf("Gemini 最終回應失敗: %v", err))
	}
	return responseText(final)
}

// functionCalls 取出第一個候選回應中的所有工具呼叫
func functionCalls(resp *genai.GenerateContentResponse) []genai.FunctionCall {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	var calls []genai.FunctionCall
	for _, p := range resp.Candidates[0].Content.Parts {
		if fc, ok := p.(genai.FunctionCall); ok {
			calls = append(calls, fc)
		}
	}
	return calls
}

// responseText 串接回應中所有文字片段
func responseText(resp *genai.GenerateContentResponse) string {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if txt, ok := p.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return sb.String()
}

// toDeclarations 把共用的工具 Schema 轉成 Gemini 的 FunctionDeclaration
func toDeclarations(defs []tools.Tool) []*genai.FunctionDeclaration {
	out := make([]*genai.FunctionDeclaration, 0, len(defs))
	for _, d := range defs {
		props := make(map[string]*genai.Schema, len(d.Function.Parameters.Properties))
		for name, p := range d.Function.Parameters.Properties {
			props[name] = &genai.Schema{
				Type:        toGenaiType(p.Type),
				Description: p.Description,
				Enum:        p.Enum,
			}
		}
		out = append(out, &genai.FunctionDeclaration{
			Name:        d.Function.Name,
			Description: d.Function.Description,
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: props,
				Required:   d.Function.Parameters.Required,
			},
		})
	}
	return out
}

func toGenaiType(t string) genai.Type {
	switch t {
	case "integer":
		return genai.TypeInteger
	case "number":
		return genai.TypeNumber
	case "boolean":
		return genai.TypeBoolean
	default:
		return genai.TypeString
	}
}
