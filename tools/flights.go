package tools

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// FlightResult 是 search_flights 回傳給模型的資料
// 沒有真的查價，price 放引導性文字讓 UI 顯示
type FlightResult struct {
	Type       string `json:"type"`
	Airline    string `json:"airline"`
	Price      string `json:"price"`
	Link       string `json:"link"`
	LinkGoogle string `json:"link_google"`
}

// FlightLinkTool 產生機票比價連結 (Skyscanner & Google Flights)
// 不呼叫任何 API，完全免費，永遠不會失敗
type FlightLinkTool struct{}

func NewFlightLinkTool() *FlightLinkTool { return &FlightLinkTool{} }

func (t *FlightLinkTool) Name() string { return "search_flights" }

func (t *FlightLinkTool) Definition() Tool {
	return Tool{
		Type: "function",
		Function: ToolFunction{
			Name:        "search_flights",
			Description: "產生機票比價連結 (Skyscanner/Google Flights)",
			Parameters: ToolParameters{
				Type: "object",
				Properties: map[string]ToolProperty{
					"origin":         {Type: "string", Description: "出發地機場代碼 (例如 TPE)"},
					"destination":    {Type: "string", Description: "目的地機場代碼 (例如 KIX)"},
					"departure_date": {Type: "string", Description: "出發日期 YYYY-MM-DD"},
				},
				Required: []string{"origin", "destination", "departure_date"},
			},
		},
	}
}

func (t *FlightLinkTool) Run(argsJSON string) (string, error) {
	var raw struct {
		Origin        interface{} `json:"origin"`
		Destination   interface{} `json:"destination"`
		DepartureDate interface{} `json:"departure_date"`
	}
	if err := json.Unmarshal([]byte(argsJSON), &raw); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}

	origin := ToString(raw.Origin)
	destination := ToString(raw.Destination)
	departureDate := ToString(raw.DepartureDate)

	fmt.Printf("✈️ [Tool] 生成機票連結: %s -> %s (%s)\n", origin, destination, departureDate)

	res := BuildFlightLinks(origin, destination, departureDate)
	out, err := json.Marshal(res)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// BuildFlightLinks 組出兩個比價網站的深度連結
// Skyscanner 格式: https://www.skyscanner.com.tw/transport/flights/tpe/kix/251225
// 日期格式錯誤時連結退化成不帶日期，不會報錯
func BuildFlightLinks(origin, destination, departureDate string) FlightResult {
	shortDate := ""
	if d, err := time.Parse("2006-01-02", departureDate); err == nil {
		shortDate = d.Format("060102")
	}

	skyscanner := fmt.Sprintf("https://www.skyscanner.com.tw/transport/flights/%s/%s/%s",
		strings.ToLower(origin), strings.ToLower(destination), shortDate)

	query := fmt.Sprintf("Flights from %s to %s on %s", origin, destination, departureDate)
	google := "https://www.google.com/travel/flights?q=" + url.QueryEscape(query)

	return FlightResult{
		Type:       "flight",
		Airline:    "多個航班比價",
		Price:      "點擊查看即時票價",
		Link:       skyscanner,
		LinkGoogle: google,
	}
}
