package trip

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoJSON 表示模型輸出中找不到任何 JSON 物件
var ErrNoJSON = errors.New("no JSON object found in model output")

// ParseError 表示找到了 JSON 片段但解析失敗，保留原文供 UI 除錯顯示
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("trip JSON parse failed: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ExtractJSON 從模型的原始輸出中切出 JSON 物件片段
// 模型常常不聽話，會在 JSON 前後包 markdown 圍欄或解釋文字
// 規則：取第一個 '{' 到最後一個 '}' 的貪婪區段（若輸出已是純 JSON 則原樣回傳）
func ExtractJSON(raw string) (string, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return "", ErrNoJSON
	}
	return raw[start : end+1], nil
}

// Parse 從原始輸出抽出 JSON 並解析為 Result
// 失敗時回傳 ErrNoJSON 或帶原文的 *ParseError，呼叫端可顯示原文診斷
func Parse(raw string) (*Result, error) {
	span, err := ExtractJSON(raw)
	if err != nil {
		return nil, err
	}

	var res Result
	if err := json.Unmarshal([]byte(span), &res); err != nil {
		return nil, &ParseError{Raw: raw, Err: err}
	}
	return &res, nil
}

// Fallback 產生供應商出錯時的保底行程 JSON
// 下游 UI 永遠拿得到可渲染的字串，錯誤訊息放在 budget_analysis
func Fallback(tripName string, cause error) string {
	res := Result{
		TripName:       tripName,
		BudgetAnalysis: cause.Error(),
		Activities:     []Activity{},
		DailyItinerary: []Day{},
	}
	b, _ := json.Marshal(res)
	return string(b)
}
