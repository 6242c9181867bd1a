package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/asccclass/tripmate/trip"
)

// Markdown 把行程結果轉成 Markdown 文件
// 同一份文字同時用於終端渲染 (glamour) 與檔案匯出
func Markdown(res *trip.Result, userBudget int) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", res.TripName)

	// 預算概覽
	s := trip.Summarize(res, userBudget)
	sb.WriteString("## 💰 預算概覽\n\n")
	fmt.Fprintf(&sb, "- 預估總花費 (機票+門票)：TWD %d\n", s.TotalCost)
	if userBudget > 0 {
		if s.Remaining >= 0 {
			fmt.Fprintf(&sb, "- 剩餘預算：TWD %d\n", s.Remaining)
		} else {
			fmt.Fprintf(&sb, "- **超支：TWD %d**\n", -s.Remaining)
		}
	}
	if res.TotalBudget > 0 {
		fmt.Fprintf(&sb, "- AI 估算整趟花費：TWD %d\n", res.TotalBudget)
	}
	if res.BudgetAnalysis != "" {
		fmt.Fprintf(&sb, "\n> 🤖 %s\n", res.BudgetAnalysis)
	}
	sb.WriteString("\n")

	// 機票
	if res.Flight != nil {
		sb.WriteString("## ✈️ 機票\n\n")
		fmt.Fprintf(&sb, "- 航空公司：%s\n", res.Flight.Airline)
		fmt.Fprintf(&sb, "- 價格：%s\n", res.Flight.Price)
		if res.Flight.Link != "" {
			fmt.Fprintf(&sb, "- [Skyscanner 比價](%s)\n", res.Flight.Link)
		}
		if res.Flight.LinkGoogle != "" {
			fmt.Fprintf(&sb, "- [Google Flights](%s)\n", res.Flight.LinkGoogle)
		}
		sb.WriteString("\n")
	}

	// 票券
	if len(res.Activities) > 0 {
		sb.WriteString("## 🎫 票券優惠\n\n")
		for _, act := range res.Activities {
			fmt.Fprintf(&sb, "- [%s](%s) (%s) — %s\n",
				act.Name, act.Link, strings.ToUpper(act.Platform), act.Price)
		}
		sb.WriteString("\n")
	}

	// 每日行程
	sb.WriteString("## 🗓️ 行程\n\n")
	for _, day := range res.DailyItinerary {
		fmt.Fprintf(&sb, "### Day %d：%s\n\n", day.Day, day.Theme)
		for _, spot := range day.Attractions {
			fmt.Fprintf(&sb, "- **%s** (%s)\n", spot.Name, spot.Time)
			if spot.Description != "" {
				fmt.Fprintf(&sb, "  %s\n", spot.Description)
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// SaveAsMarkdown 匯出 Markdown 檔案
func SaveAsMarkdown(filename string, res *trip.Result, userBudget int) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return err
	}
	return os.WriteFile(filename, []byte(Markdown(res, userBudget)), 0o644)
}
