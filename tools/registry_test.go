package tools

import (
	"encoding/json"
	"errors"
	"testing"
)

// ============================================================
// Registry — 工具註冊、查找與防呆派發
// ============================================================

// mockTool 是用於測試的假工具
type mockTool struct {
	name   string
	result string
	err    error
	calls  int
}

func (m *mockTool) Name() string { return m.name }
func (m *mockTool) Definition() Tool {
	return Tool{Type: "function", Function: ToolFunction{Name: m.name, Description: "mock"}}
}
func (m *mockTool) Run(argsJSON string) (string, error) {
	m.calls++
	return m.result, m.err
}

func TestRegistry_RegisterAndCall(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&mockTool{name: "search_flights", result: `{"type":"flight"}`})

	result, err := reg.CallTool("search_flights", `{"origin":"TPE"}`)
	if err != nil {
		t.Fatalf("CallTool failed: %v", err)
	}
	if result != `{"type":"flight"}` {
		t.Errorf("Expected flight JSON, got %q", result)
	}
}

func TestRegistry_UnknownTool(t *testing.T) {
	reg := NewRegistry()
	if _, err := reg.CallTool("nonexistent_tool", `{}`); err == nil {
		t.Fatal("Expected error for unknown tool, got nil")
	}
}

func TestRegistry_DefinitionsOrder(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&mockTool{name: "tool_a"})
	reg.Register(&mockTool{name: "tool_b"})
	reg.Register(&mockTool{name: "tool_c"})

	defs := reg.Definitions()
	if len(defs) != 3 {
		t.Fatalf("Expected 3 definitions, got %d", len(defs))
	}
	// 順序必須穩定 (照註冊順序)，否則 Prompt cache 會失效
	want := []string{"tool_a", "tool_b", "tool_c"}
	for i, w := range want {
		if defs[i].Function.Name != w {
			t.Errorf("defs[%d] = %q, want %q", i, defs[i].Function.Name, w)
		}
	}
}

// --- Dispatch: 保證不失敗的派發 ---

func TestDispatch_UnknownTool(t *testing.T) {
	reg := NewRegistry()
	out := reg.Dispatch("made_up_tool", `{}`)
	if out != `{"error": "Unknown tool"}` {
		t.Errorf("未知工具應回傳固定錯誤 JSON, got %q", out)
	}
}

func TestDispatch_ToolErrorBecomesJSON(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&mockTool{name: "broken", err: errors.New("invalid arguments: boom")})

	out := reg.Dispatch("broken", `not json`)

	var payload map[string]string
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("Dispatch 的錯誤輸出必須是合法 JSON: %v (got %q)", err, out)
	}
	if payload["error"] == "" {
		t.Errorf("錯誤訊息應放在 error 欄位, got %q", out)
	}
}

func TestDispatch_OneFailureDoesNotBlockOthers(t *testing.T) {
	// 同一回合中單一工具出錯，其餘工具照常執行
	good := &mockTool{name: "good", result: "ok"}
	bad := &mockTool{name: "bad", err: errors.New("boom")}

	reg := NewRegistry()
	reg.Register(bad)
	reg.Register(good)

	_ = reg.Dispatch("bad", `{}`)
	out := reg.Dispatch("good", `{}`)

	if out != "ok" {
		t.Errorf("後續工具應不受影響, got %q", out)
	}
	if good.calls != 1 || bad.calls != 1 {
		t.Errorf("呼叫次數異常: good=%d bad=%d", good.calls, bad.calls)
	}
}

// --- 完整註冊表 ---

func TestNewTravelRegistry_AllToolsPresent(t *testing.T) {
	reg := NewTravelRegistry(&fakeSearcher{})

	want := []string{
		"search_flights",
		"search_activity_tickets",
		"search_flight_average_cost",
		"search_internet_average_cost",
		"search_internet",
	}
	defs := reg.Definitions()
	if len(defs) != len(want) {
		t.Fatalf("Expected %d tools, got %d", len(want), len(defs))
	}
	for i, w := range want {
		if defs[i].Function.Name != w {
			t.Errorf("defs[%d] = %q, want %q", i, defs[i].Function.Name, w)
		}
	}
}
