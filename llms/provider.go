package llms

import "context"

// Provider 定義了所有 LLM 供應商必須實作的方法
//
// GenerateTrip 接收旅程需求的 User Prompt，驅動最多兩輪的 Tool-Calling 流程，
// 回傳「應該」帶有行程 JSON 的原始文字。
// 合約：這個方法永遠回傳字串、不會把供應商錯誤往上丟 —
// 連線、認證、配額失敗都被轉成保底的行程 JSON (錯誤訊息放在 budget_analysis)，
// 下游的渲染端因此不需要為錯誤路徑做 null 檢查。
type Provider interface {
	Name() string
	GenerateTrip(ctx context.Context, userPrompt string, enableFlights bool) string
}
