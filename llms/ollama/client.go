package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
)

// Options 定義模型參數，用於調整 AI 的行為風格
type Options struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p,omitempty"`
}

// Message 代表對話中的一則訊息（符合 Ollama /api/chat 標準）
type Message struct {
	Role      string         `json:"role"`                 // system, user, assistant, tool
	Content   string         `json:"content"`              // 訊息內容
	ToolCalls []api.ToolCall `json:"tool_calls,omitempty"` // AI 請求的工具呼叫
}

// ChatRequest 定義發送至 /api/chat 的資料結構
type ChatRequest struct {
	Model    string     `json:"model"`
	Messages []Message  `json:"messages"`
	Tools    []api.Tool `json:"tools,omitempty"`   // 工具定義清單
	Stream   bool       `json:"stream"`            // 行程生成走非串流
	Format   string     `json:"format,omitempty"`  // "json" 可強制輸出合法 JSON
	Options  Options    `json:"options,omitempty"` // 模型參數
}

// ChatResponse 是非串流模式的完整回應
type ChatResponse struct {
	Model     string  `json:"model"`
	CreatedAt string  `json:"created_at"`
	Message   Message `json:"message"`
	Done      bool    `json:"done"`
}

// Client 對接本機或遠端的 Ollama 伺服器
// 遠端 (例如 Cloudflare Tunnel) 可附 Bearer Token
type Client struct {
	base  string
	token string
	http  *http.Client
}

// NewClient 建立 Ollama 客戶端，host 為空時使用本機預設位址
func NewClient(host, token string) *Client {
	if host == "" {
		host = "http://localhost:11434"
	}
	return &Client{
		base:  strings.TrimSuffix(host, "/"),
		token: token,
		http:  &http.Client{Timeout: 300 * time.Second},
	}
}

// BaseURL 回傳連線位址，供啟動訊息顯示
func (c *Client) BaseURL() string { return c.base }

// Chat 發送一次非串流的對話請求
// 連線失敗 (例如 Ollama 還沒啟動) 會等待 3 秒重試，最多 3 次
func (c *Client) Chat(ctx context.Context, req ChatRequest) (Message, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return Message{}, fmt.Errorf("JSON 編碼失敗: %v", err)
	}

	var resp *http.Response
	maxRetries := 3

	for i := 0; i < maxRetries; i++ {
		httpReq, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/api/chat", bytes.NewReader(jsonData))
		if reqErr != nil {
			return Message{}, reqErr
		}
		httpReq.Header.Set("Content-Type", "application/json")
		if c.token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err = c.http.Do(httpReq)
		if err == nil {
			break
		}
		if ctx.Err() != nil {
			return Message{}, ctx.Err()
		}

		// 若發生連線錯誤 (例如 connection refused)，等待後重試
		if i < maxRetries-1 {
			fmt.Printf("⚠️ 連線至 Ollama 失敗 (嘗試 %d/%d): %v\n⏳ 3秒後重試...\n", i+1, maxRetries, err)
			time.Sleep(3 * time.Second)
		}
	}

	if err != nil {
		return Message{}, fmt.Errorf("連線至 Ollama 失敗 (已重試 %d 次): %v", maxRetries, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Message{}, fmt.Errorf("Ollama 回傳錯誤碼: %d", resp.StatusCode)
	}

	var out ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Message{}, fmt.Errorf("回應解析失敗: %v", err)
	}
	return out.Message, nil
}
