package llms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/asccclass/tripmate/internal/search"
	"github.com/asccclass/tripmate/tools"
	"github.com/asccclass/tripmate/trip"
)

// ============================================================
// OpenAIProvider — 兩輪 Tool-Calling 流程 (httptest 假端點)
// ============================================================

// offlineSearcher 確保測試不打真實網路
type offlineSearcher struct{}

func (offlineSearcher) Text(query, region string, maxResults int) ([]search.Result, error) {
	return nil, nil
}
func (offlineSearcher) Images(query string, maxResults int) ([]search.ImageResult, error) {
	return nil, nil
}

func testRegistry() *tools.Registry {
	return tools.NewTravelRegistry(offlineSearcher{})
}

// fakeLLM 是 OpenAI 相容端點的腳本化假伺服器，逐次回放 responses
type fakeLLM struct {
	responses []string
	requests  []chatRequest
}

func (f *fakeLLM) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("伺服器收到壞請求: %v", err)
		}
		f.requests = append(f.requests, req)

		if len(f.responses) == 0 {
			t.Error("假伺服器收到預期外的請求")
			http.Error(w, "no more responses", http.StatusInternalServerError)
			return
		}
		body := f.responses[0]
		f.responses = f.responses[1:]

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}
}

func assistantReply(content string) string {
	return `{"choices":[{"message":{"role":"assistant","content":` + mustJSON(content) + `}}]}`
}

func mustJSON(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestGenerateTrip_NoToolCalls(t *testing.T) {
	// 模型不呼叫工具時，第一輪的回覆就是最終輸出
	llm := &fakeLLM{responses: []string{assistantReply(`{"trip_name":"直出行程"}`)}}
	srv := httptest.NewServer(llm.handler(t))
	defer srv.Close()

	p := newOpenAIProvider("test", srv.URL, "key", "test-model", 4096, true, testRegistry())
	out := p.GenerateTrip(context.Background(), "規劃大阪行程", true)

	if out != `{"trip_name":"直出行程"}` {
		t.Errorf("應原樣回傳第一輪內容, got %q", out)
	}
	if len(llm.requests) != 1 {
		t.Fatalf("Expected 1 request, got %d", len(llm.requests))
	}

	first := llm.requests[0]
	if len(first.Tools) != 5 {
		t.Errorf("第一輪應帶完整工具 Schema, got %d tools", len(first.Tools))
	}
	if first.ToolChoice != "auto" {
		t.Errorf("tool_choice = %q", first.ToolChoice)
	}
	if first.Messages[0].Role != "system" || first.Messages[1].Role != "user" {
		t.Errorf("訊息順序錯誤: %+v", first.Messages)
	}
}

func TestGenerateTrip_ToolRound(t *testing.T) {
	toolCallReply := `{"choices":[{"message":{
		"role":"assistant","content":"",
		"tool_calls":[{"id":"call_1","type":"function","function":{
			"name":"search_flights",
			"arguments":"{\"origin\":\"TPE\",\"destination\":\"KIX\",\"departure_date\":\"2025-12-25\"}"}}]}}]}`

	llm := &fakeLLM{responses: []string{
		toolCallReply,
		assistantReply(`{"trip_name":"關西五日遊","daily_itinerary":[]}`),
	}}
	srv := httptest.NewServer(llm.handler(t))
	defer srv.Close()

	p := newOpenAIProvider("groq", srv.URL, "key", "test-model", 4096, true, testRegistry())
	out := p.GenerateTrip(context.Background(), "大阪五天", true)

	if out != `{"trip_name":"關西五日遊","daily_itinerary":[]}` {
		t.Errorf("最終輸出錯誤: %q", out)
	}
	if len(llm.requests) != 2 {
		t.Fatalf("Expected 2 requests, got %d", len(llm.requests))
	}

	second := llm.requests[1]

	// 第二輪必須帶回 assistant 的 tool_calls 訊息與對齊的 tool 結果
	var assistantMsg, toolMsg *chatMessage
	for i := range second.Messages {
		m := &second.Messages[i]
		switch {
		case m.Role == "assistant" && len(m.ToolCalls) > 0:
			assistantMsg = m
		case m.Role == "tool":
			toolMsg = m
		}
	}
	if assistantMsg == nil {
		t.Fatal("第二輪缺少帶 tool_calls 的 assistant 訊息")
	}
	if toolMsg == nil {
		t.Fatal("第二輪缺少 tool 訊息")
	}
	if toolMsg.ToolCallID != "call_1" {
		t.Errorf("tool_call_id 未對齊: %q", toolMsg.ToolCallID)
	}
	if !strings.Contains(toolMsg.Content, "tpe/kix/251225") {
		t.Errorf("工具結果應包含比價連結, got %q", toolMsg.Content)
	}

	// 第二輪不帶工具，且 JSON 模式開啟時要求 json_object
	if len(second.Tools) != 0 {
		t.Errorf("第二輪不應再帶工具, got %d", len(second.Tools))
	}
	if second.ResponseFormat == nil || second.ResponseFormat.Type != "json_object" {
		t.Errorf("jsonFinal 應要求 response_format=json_object, got %+v", second.ResponseFormat)
	}
}

func TestGenerateTrip_NoJSONFormatWhenUnsupported(t *testing.T) {
	toolCallReply := `{"choices":[{"message":{
		"role":"assistant","content":"",
		"tool_calls":[{"id":"c1","type":"function","function":{
			"name":"search_flights",
			"arguments":"{\"origin\":\"TPE\",\"destination\":\"NRT\",\"departure_date\":\"2026-01-01\"}"}}]}}]}`

	llm := &fakeLLM{responses: []string{toolCallReply, assistantReply(`{}`)}}
	srv := httptest.NewServer(llm.handler(t))
	defer srv.Close()

	// Hugging Face Router 不支援 response_format
	p := newOpenAIProvider("huggingface", srv.URL, "key", "test-model", 4000, false, testRegistry())
	p.GenerateTrip(context.Background(), "東京", true)

	if len(llm.requests) != 2 {
		t.Fatalf("Expected 2 requests, got %d", len(llm.requests))
	}
	if llm.requests[1].ResponseFormat != nil {
		t.Errorf("jsonFinal=false 時第二輪不應帶 response_format")
	}
}

func TestGenerateTrip_UnknownToolContained(t *testing.T) {
	// 模型幻覺出不存在的工具：以 {"error": ...} 餵回，回合照常完成
	toolCallReply := `{"choices":[{"message":{
		"role":"assistant","content":"",
		"tool_calls":[{"id":"c1","type":"function","function":{
			"name":"book_hotel","arguments":"{}"}}]}}]}`

	llm := &fakeLLM{responses: []string{toolCallReply, assistantReply(`{"trip_name":"ok"}`)}}
	srv := httptest.NewServer(llm.handler(t))
	defer srv.Close()

	p := newOpenAIProvider("test", srv.URL, "key", "m", 4096, true, testRegistry())
	out := p.GenerateTrip(context.Background(), "大阪", true)

	if out != `{"trip_name":"ok"}` {
		t.Errorf("未知工具不應中斷流程, got %q", out)
	}

	second := llm.requests[1]
	var toolContent string
	for _, m := range second.Messages {
		if m.Role == "tool" {
			toolContent = m.Content
		}
	}
	if toolContent != `{"error": "Unknown tool"}` {
		t.Errorf("未知工具的結果錯誤: %q", toolContent)
	}
}

func TestGenerateTrip_TransportErrorFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := newOpenAIProvider("groq", srv.URL, "key", "m", 4096, true, testRegistry())
	out := p.GenerateTrip(context.Background(), "大阪", true)

	// 合約：永遠回傳可解析的行程 JSON，錯誤放在 budget_analysis
	res, err := trip.Parse(out)
	if err != nil {
		t.Fatalf("保底輸出必須可解析: %v (got %q)", err, out)
	}
	if res.TripName != "連線錯誤" {
		t.Errorf("trip_name = %q", res.TripName)
	}
	if !strings.Contains(res.BudgetAnalysis, "groq") {
		t.Errorf("錯誤訊息應提及供應商, got %q", res.BudgetAnalysis)
	}
	if res.DailyItinerary == nil || len(res.DailyItinerary) != 0 {
		t.Errorf("daily_itinerary 應為空陣列, got %+v", res.DailyItinerary)
	}
}

func TestGenerateTrip_SecondRoundErrorFallback(t *testing.T) {
	// 第一輪成功叫了工具，第二輪伺服器掛掉，也要有保底
	toolCallReply := `{"choices":[{"message":{
		"role":"assistant","content":"",
		"tool_calls":[{"id":"c1","type":"function","function":{
			"name":"search_flights",
			"arguments":"{\"origin\":\"TPE\",\"destination\":\"KIX\",\"departure_date\":\"2025-12-25\"}"}}]}}]}`

	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(toolCallReply))
			return
		}
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := newOpenAIProvider("test", srv.URL, "key", "m", 4096, true, testRegistry())
	out := p.GenerateTrip(context.Background(), "大阪", true)

	if _, err := trip.Parse(out); err != nil {
		t.Fatalf("第二輪失敗也要回保底 JSON: %v (got %q)", err, out)
	}
}

func TestGenerateTrip_MalformedToolArgs(t *testing.T) {
	// arguments 不是合法 JSON：只有該次呼叫失敗，另一個工具照常執行
	toolCallReply := `{"choices":[{"message":{
		"role":"assistant","content":"",
		"tool_calls":[
			{"id":"c1","type":"function","function":{"name":"search_flights","arguments":"{broken"}},
			{"id":"c2","type":"function","function":{
				"name":"search_flights",
				"arguments":"{\"origin\":\"TPE\",\"destination\":\"KIX\",\"departure_date\":\"2025-12-25\"}"}}]}}]}`

	llm := &fakeLLM{responses: []string{toolCallReply, assistantReply(`{}`)}}
	srv := httptest.NewServer(llm.handler(t))
	defer srv.Close()

	p := newOpenAIProvider("test", srv.URL, "key", "m", 4096, true, testRegistry())
	p.GenerateTrip(context.Background(), "大阪", true)

	var toolMsgs []chatMessage
	for _, m := range llm.requests[1].Messages {
		if m.Role == "tool" {
			toolMsgs = append(toolMsgs, m)
		}
	}
	if len(toolMsgs) != 2 {
		t.Fatalf("兩個工具呼叫都要有結果, got %d", len(toolMsgs))
	}
	// 順序必須依模型要求的順序
	if toolMsgs[0].ToolCallID != "c1" || toolMsgs[1].ToolCallID != "c2" {
		t.Errorf("工具結果順序錯誤: %q, %q", toolMsgs[0].ToolCallID, toolMsgs[1].ToolCallID)
	}
	if !strings.Contains(toolMsgs[0].Content, "error") {
		t.Errorf("壞參數應產生錯誤結果, got %q", toolMsgs[0].Content)
	}
	if !strings.Contains(toolMsgs[1].Content, "tpe/kix/251225") {
		t.Errorf("正常呼叫不受影響, got %q", toolMsgs[1].Content)
	}
}
