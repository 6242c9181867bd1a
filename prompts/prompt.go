// Package prompts 集中管理給 LLM 的指令文字
// System Prompt 與 User Prompt 由所有後端共用，確保各家模型拿到一致的規則與 JSON 規格
package prompts

import (
	"fmt"
	"strings"

	"github.com/asccclass/tripmate/trip"
)

// SystemPrompt 產生共用的 System Prompt，定義 AI 的角色、規則與 JSON 輸出格式
// enableFlights 控制機票指令：關閉時明確要求模型把 flight 欄位填 null
func SystemPrompt(enableFlights bool) string {
	flightInstr := "2. Flight Ticket: Call `search_flight_average_cost` to research market price, and use `search_flights` to make the comparison link."
	if !enableFlights {
		flightInstr = "2. Flight Ticket: User doesn't want to search flight tickets. Ignore the flight column and place null."
	}

	return fmt.Sprintf(`You are a professional travel planner.

【Execution Rules】
1. **Paid Attractions**: Must call `+"`search_activity_tickets`"+` (Klook/KKday) for price comparison.
%s
3. **Unknown Info**: If you don't know the latitude/longitude or details, call `+"`search_internet`"+`. Do NOT hallucinate.
4. **Budget**: Calculate the `+"`total_budget`"+` (integer) based on flight, activities, and estimated daily costs, then explain it in `+"`budget_analysis`"+`.
5. **Word counts**: Write at least 100 words for each itinerary day and keep the plan reasonable.

【Output Format】
**IMPORTANT:** Output ONLY valid JSON. Do NOT output any introduction, explanation, or markdown backticks (`+"```json"+`). Just the raw JSON string.

【JSON Structure Example (Follow the Format Strictly)】
This is just a template. Follow the user's demands instead of copying it verbatim.
{
    "trip_name": "Osaka 5 Days Trip",
    "flight": { "airline": "EVA Air", "price": "15000", "link": "..." },

    "budget_analysis": "Budget is sufficient. Flight is around 15k, hotels...",
    "total_budget": 35000,

    "activities": [
        { "name": "USJ", "platform": "klook", "price": "2500", "link": "..." }
    ],

    "daily_itinerary": [
        {
            "day": 1,
            "theme": "Arrival",
            "attractions": [
                {
                    "name": "Dotonbori",
                    "time": "18:00",
                    "description": "Food street...",
                    "latitude": 34.6687,
                    "longitude": 135.5013
                }
            ]
        }
    ]
}`, flightInstr)
}

// UserPrompt 把旅程需求與執行步驟組成使用者訊息
func UserPrompt(req trip.Request) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "我要去 %s 玩 %d 天，從 %s 出發，日期 %s。\n", req.Destination, req.Days, req.Origin, req.StartDate)
	fmt.Fprintf(&sb, "總預算約 TWD %d。\n", req.Budget)
	if len(req.Interests) > 0 {
		fmt.Fprintf(&sb, "興趣：%s。\n", req.InterestList())
	}

	fmt.Fprintf(&sb, `
【執行步驟與邏輯】
1. **做功課**：
    - 呼叫 `+"`search_internet`"+` 查詢 %s 的熱門景點及其「經緯度座標」。
    - 呼叫 `+"`search_flight_average_cost`"+` 查機票行情。

2. **規劃行程 (地圖資料關鍵)**：
    - **非常重要：** `+"`daily_itinerary`"+` 裡的每個景點，**必須** 是物件 (Object) 格式，不能只是字串。
    - 每個景點物件 **必須包含** `+"`latitude`"+` (緯度) 和 `+"`longitude`"+` (經度) 兩個欄位。
    - 如果你不知道座標，**請呼叫 `+"`search_internet`"+` 查詢該景點的 Google Maps 座標**，絕對不能省略，否則地圖會是一片空白。

3. **機票與票券**：
    - 呼叫 `+"`search_flights`"+` 產連結。
    - 對於付費景點，呼叫 `+"`search_activity_tickets`"+` 查價。

4. **預算檢核**：
    - 計算總花費並填寫 `+"`budget_analysis`"+`，提供詳細的財務建議。

5. **行程長度審查**：
    - Please return exactly %d days of itinerary as the user demands.
`, req.Destination, req.Days)

	return sb.String()
}
