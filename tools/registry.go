package tools

import (
	"encoding/json"
	"fmt"
)

// Registry 管理所有可用的工具
type Registry struct {
	tools map[string]AgentTool
	order []string // 保持 Definitions 的輸出順序穩定
}

// NewRegistry 建立新的註冊表
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]AgentTool)}
}

// Register 註冊一個工具，名稱重複時以後註冊者為準
func (r *Registry) Register(t AgentTool) {
	if _, exists := r.tools[t.Name()]; !exists {
		r.order = append(r.order, t.Name())
	}
	r.tools[t.Name()] = t
}

// Definitions 取得所有工具的 Schema，準備傳給 LLM
func (r *Registry) Definitions() []Tool {
	defs := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].Definition())
	}
	return defs
}

// CallTool 根據 AI 的要求執行對應工具
func (r *Registry) CallTool(name string, argsJSON string) (string, error) {
	tool, ok := r.tools[name]
	if !ok {
		return "", fmt.Errorf("找不到工具: %s", name)
	}
	return tool.Run(argsJSON)
}

// Dispatch 執行工具並保證不失敗：
// 未知工具或執行錯誤都轉成 {"error": ...} 餵回給模型，讓模型自行收拾，
// 單一工具出錯不會中斷整個回合
func (r *Registry) Dispatch(name string, argsJSON string) string {
	tool, ok := r.tools[name]
	if !ok {
		fmt.Printf("⚠️ [Tools] 模型要求了未知工具: %s\n", name)
		return `{"error": "Unknown tool"}`
	}

	result, err := tool.Run(argsJSON)
	if err != nil {
		fmt.Printf("⚠️ [Tools] %s 執行失敗: %v\n", name, err)
		payload, _ := json.Marshal(map[string]string{"error": err.Error()})
		return string(payload)
	}
	return result
}
