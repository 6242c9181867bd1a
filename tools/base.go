package tools

/*
定義標準介面 (tools/base.go)
所有旅遊工具都必須遵守這份「合約」。
Schema 採用與供應商無關的 OpenAI function 格式，
各家 Adapter 再自行轉換成 SDK 需要的型別。
*/

import "github.com/asccclass/tripmate/internal/search"

// Tool 是給 LLM 看的工具定義 (JSON Schema)
type Tool struct {
	Type     string       `json:"type"`
	Function ToolFunction `json:"function"`
}

// ToolFunction 描述單一 function 的名稱與參數
type ToolFunction struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  ToolParameters `json:"parameters"`
}

// ToolParameters 是 function 的參數 Schema
type ToolParameters struct {
	Type       string                  `json:"type"`
	Properties map[string]ToolProperty `json:"properties"`
	Required   []string                `json:"required,omitempty"`
}

// ToolProperty 是單一參數的型別描述
type ToolProperty struct {
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Enum        []string `json:"enum,omitempty"`
}

// AgentTool 是所有工具都必須實作的介面
type AgentTool interface {
	// Name 回傳工具名稱 (例如 "search_flights")
	Name() string

	// Definition 回傳給 LLM 看的 JSON Schema
	Definition() Tool

	// Run 接收 JSON 格式的參數字串，並回傳執行結果
	// 結果必須是可直接塞進 tool message 的字串 (JSON 或純文字摘要)
	Run(argsJSON string) (string, error)
}

// Searcher 是工具依賴的網頁搜尋能力，測試時可注入假實作
type Searcher interface {
	Text(query, region string, maxResults int) ([]search.Result, error)
	Images(query string, maxResults int) ([]search.ImageResult, error)
}
