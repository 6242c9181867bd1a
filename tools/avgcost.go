package tools

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// recentYears 組出搜尋關鍵字用的年份區間，確保抓到的討論夠新
func recentYears() string {
	y := time.Now().Year()
	return fmt.Sprintf("%d %d", y-1, y)
}

// TripCostSearchTool 搜尋網路上 (PTT/Dcard/Blog) 關於該地點的平均旅遊花費
// 回傳摘要文字，金額的分析交給 LLM
type TripCostSearchTool struct {
	searcher Searcher
}

func NewTripCostSearchTool(s Searcher) *TripCostSearchTool {
	return &TripCostSearchTool{searcher: s}
}

func (t *TripCostSearchTool) Name() string { return "search_internet_average_cost" }

func (t *TripCostSearchTool) Definition() Tool {
	return Tool{
		Type: "function",
		Function: ToolFunction{
			Name:        "search_internet_average_cost",
			Description: "搜尋網路上關於該地點的平均旅遊花費 (PTT/Dcard/Blog)，用於預算估算",
			Parameters: ToolParameters{
				Type: "object",
				Properties: map[string]ToolProperty{
					"destination": {Type: "string", Description: "地點 (如 大阪)"},
					"days":        {Type: "integer", Description: "天數 (如 5)"},
				},
				Required: []string{"destination", "days"},
			},
		},
	}
}

func (t *TripCostSearchTool) Run(argsJSON string) (string, error) {
	var raw struct {
		Destination interface{} `json:"destination"`
		Days        interface{} `json:"days"`
	}
	if err := json.Unmarshal([]byte(argsJSON), &raw); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	destination := ToString(raw.Destination)
	days := ToInt(raw.Days)

	fmt.Printf("🔍 [Tool] 正在搜尋 '%s' %d 天的網路預算討論...\n", destination, days)

	query := fmt.Sprintf("%s %d天 自由行 花費 ptt dcard %s", destination, days, recentYears())
	hits, err := t.searcher.Text(query, "tw-tzh", 3)
	if err != nil {
		fmt.Printf("❌ [Tool] 預算搜尋失敗: %v\n", err)
		return "預算搜尋工具暫時無法使用。", nil
	}
	if len(hits) == 0 {
		return "查無相關預算討論資料。", nil
	}

	var sb strings.Builder
	sb.WriteString("網路搜尋結果：\n")
	for _, h := range hits {
		fmt.Fprintf(&sb, "- %s: %s\n", h.Title, h.Snippet)
	}
	return sb.String(), nil
}

// FareCostSearchTool 搜尋網路上關於該航線的平均機票價格行情
// 用來代替即時查價 API，進行預算估算
type FareCostSearchTool struct {
	searcher Searcher
}

func NewFareCostSearchTool(s Searcher) *FareCostSearchTool {
	return &FareCostSearchTool{searcher: s}
}

func (t *FareCostSearchTool) Name() string { return "search_flight_average_cost" }

func (t *FareCostSearchTool) Definition() Tool {
	return Tool{
		Type: "function",
		Function: ToolFunction{
			Name:        "search_flight_average_cost",
			Description: "搜尋網路上關於該航線的平均機票價格行情 (PTT/Dcard/Blog)，用於預算估算",
			Parameters: ToolParameters{
				Type: "object",
				Properties: map[string]ToolProperty{
					"origin":      {Type: "string", Description: "出發地 (如 台北/TPE)"},
					"destination": {Type: "string", Description: "目的地 (如 大阪/KIX)"},
				},
				Required: []string{"origin", "destination"},
			},
		},
	}
}

func (t *FareCostSearchTool) Run(argsJSON string) (string, error) {
	var raw struct {
		Origin      interface{} `json:"origin"`
		Destination interface{} `json:"destination"`
	}
	if err := json.Unmarshal([]byte(argsJSON), &raw); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	origin := ToString(raw.Origin)
	destination := ToString(raw.Destination)

	query := fmt.Sprintf("%s 到 %s 機票價格 ptt dcard %s 便宜", origin, destination, recentYears())
	fmt.Printf("✈️ [Tool] 搜尋機票行情: %s\n", query)

	hits, err := t.searcher.Text(query, "tw-tzh", 5)
	if err != nil {
		fmt.Printf("❌ [Tool] 機票行情搜尋失敗: %v\n", err)
		return "機票行情工具暫時無法使用。", nil
	}
	if len(hits) == 0 {
		return "查無相關機票價格討論。", nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "關於 %s 飛 %s 的機票價格搜尋結果：\n", origin, destination)
	for _, h := range hits {
		fmt.Fprintf(&sb, "- %s: %s\n", h.Title, h.Snippet)
	}
	return sb.String(), nil
}
