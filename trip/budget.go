package trip

import (
	"strings"
	"unicode"
)

// BudgetSummary 是預算儀表板的統計結果
// 僅計算「機票」與「已知票券」，不含當地餐飲與交通
type BudgetSummary struct {
	FlightCost     int
	ActivitiesCost int
	TotalCost      int
	Remaining      int // 為負代表超支
}

// ParsePrice 從 LLM 產生的價格字串抽出金額數字
// 例如 "TWD 15,000" -> 15000，"查看優惠" -> 0
func ParsePrice(price string) int {
	clean := strings.ReplaceAll(price, ",", "")

	start := -1
	for i, r := range clean {
		if unicode.IsDigit(r) {
			start = i
			break
		}
	}
	if start < 0 {
		return 0
	}

	n := 0
	for _, r := range clean[start:] {
		if !unicode.IsDigit(r) {
			break
		}
		n = n*10 + int(r-'0')
	}
	return n
}

// Summarize 根據行程結果與使用者預算計算花費概覽
func Summarize(res *Result, userBudget int) BudgetSummary {
	var s BudgetSummary

	if res.Flight != nil {
		s.FlightCost = ParsePrice(res.Flight.Price)
	}
	for _, act := range res.Activities {
		s.ActivitiesCost += ParsePrice(act.Price)
	}

	s.TotalCost = s.FlightCost + s.ActivitiesCost
	s.Remaining = userBudget - s.TotalCost
	return s
}
