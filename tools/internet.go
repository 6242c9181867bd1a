package tools

import (
	"encoding/json"
	"fmt"
	"strings"
)

// InternetSearchTool 是通用搜尋工具
// 模型不知道景點座標、天氣或最新資訊時會呼叫它
type InternetSearchTool struct {
	searcher Searcher
}

func NewInternetSearchTool(s Searcher) *InternetSearchTool {
	return &InternetSearchTool{searcher: s}
}

func (t *InternetSearchTool) Name() string { return "search_internet" }

func (t *InternetSearchTool) Definition() Tool {
	return Tool{
		Type: "function",
		Function: ToolFunction{
			Name:        "search_internet",
			Description: "通用搜尋工具，用於查詢景點經緯度、介紹或天氣等未知或即時的資訊",
			Parameters: ToolParameters{
				Type: "object",
				Properties: map[string]ToolProperty{
					"query": {Type: "string", Description: "搜尋關鍵字 (例如: 大阪環球影城 營業時間)"},
				},
				Required: []string{"query"},
			},
		},
	}
}

func (t *InternetSearchTool) Run(argsJSON string) (string, error) {
	var raw struct {
		Query interface{} `json:"query"`
	}
	if err := json.Unmarshal([]byte(argsJSON), &raw); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	query := ToString(raw.Query)

	fmt.Printf("🌐 [Tool] 通用搜尋: %s\n", query)

	// region 設 tw-tzh 針對台灣繁體優化
	hits, err := t.searcher.Text(query, "tw-tzh", 3)
	if err != nil {
		fmt.Printf("❌ [Tool] 搜尋失敗: %v\n", err)
		return fmt.Sprintf("搜尋工具暫時無法使用: %v", err), nil
	}
	if len(hits) == 0 {
		return "抱歉，網路上查無相關資訊。", nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "關於 '%s' 的搜尋結果：\n", query)
	for _, h := range hits {
		fmt.Fprintf(&sb, "- [%s](%s): %s\n", h.Title, h.Link, h.Snippet)
	}
	return sb.String(), nil
}
