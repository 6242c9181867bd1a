package trip

import "strings"

// Request 代表一次旅程規劃的輸入參數，建立後不再修改
type Request struct {
	Origin        string   // 出發地 (例如 台北)
	Destination   string   // 目的地 (例如 大阪)
	Days          int      // 天數，至少 1 天
	StartDate     string   // 出發日期 (YYYY-MM-DD)
	Budget        int      // 總預算 (TWD)
	Interests     []string // 興趣標籤
	EnableFlights bool     // 是否啟用機票比價
}

// Flight 是機票資訊卡片的欄位
type Flight struct {
	Airline    string `json:"airline"`
	Price      string `json:"price"`
	Link       string `json:"link"`
	LinkGoogle string `json:"link_google,omitempty"`
}

// Activity 是單張票券 (Klook/KKday) 的欄位
type Activity struct {
	Name     string `json:"name"`
	Platform string `json:"platform"`
	Price    string `json:"price"`
	Link     string `json:"link"`
	Image    string `json:"image,omitempty"`
}

// Attraction 是單個景點，經緯度供地圖渲染使用
type Attraction struct {
	Name        string  `json:"name"`
	Time        string  `json:"time"`
	Description string  `json:"description"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

// Day 是單日行程
type Day struct {
	Day         int          `json:"day"`
	Theme       string       `json:"theme"`
	Attractions []Attraction `json:"attractions"`
}

// Result 是 LLM 最終要吐給前端的 JSON 合約
// flight 可為 null (使用者不查機票時)，缺少的欄位由消費端容忍
type Result struct {
	TripName       string     `json:"trip_name"`
	Flight         *Flight    `json:"flight"`
	BudgetAnalysis string     `json:"budget_analysis"`
	TotalBudget    int        `json:"total_budget,omitempty"`
	Activities     []Activity `json:"activities"`
	DailyItinerary []Day      `json:"daily_itinerary"`
}

// InterestList 將興趣標籤組成 Prompt 用的逗號字串
func (r Request) InterestList() string {
	return strings.Join(r.Interests, ", ")
}
