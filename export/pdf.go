package export

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/asccclass/tripmate/trip"
)

func getSystemFont() string {
	// 優先順序 1: 根據作業系統自動選擇系統字體
	switch runtime.GOOS {
	case "windows":
		return "C:\\Windows\\Fonts\\msjh.ttc" // 微軟正黑體
	case "darwin": // macOS
		return "/Library/Fonts/Arial Unicode.ttf"
	case "linux":
		// Linux 路徑較分散，通常建議隨附字體檔在 assets
		return "/usr/share/fonts/truetype/droid/DroidSansFallbackFull.ttf"
	default: // 優先順序 2: 專案目錄下的自定義字體
		localFont := "assets/fonts/TaipeiSansTCBeta-Regular.ttf"
		if _, err := os.Stat(localFont); err == nil {
			return localFont
		}
		return ""
	}
}

// SaveAsPDF 把行程結果匯出成 PDF
// 中文內容需要 UTF-8 字型，找不到字體時直接報錯而不是輸出亂碼
func SaveAsPDF(filename string, res *trip.Result, userBudget int) error {
	fontPath := getSystemFont()
	if _, err := os.Stat(fontPath); err != nil {
		return fmt.Errorf("找不到適合的中文字體，建議手動將字體放至 assets/fonts/msjh.ttf")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddUTF8Font("MainFont", "", fontPath)
	pdf.AddPage()

	title := func(size float64, text string) {
		pdf.SetFont("MainFont", "", size)
		pdf.MultiCell(0, size/2, text, "", "L", false)
		pdf.Ln(2)
	}
	body := func(text string) {
		pdf.SetFont("MainFont", "", 11)
		pdf.MultiCell(0, 6, text, "", "L", false)
	}

	title(18, res.TripName)

	s := trip.Summarize(res, userBudget)
	title(14, "預算概覽")
	body(fmt.Sprintf("預估總花費 (機票+門票)：TWD %d", s.TotalCost))
	if userBudget > 0 {
		if s.Remaining >= 0 {
			body(fmt.Sprintf("剩餘預算：TWD %d", s.Remaining))
		} else {
			body(fmt.Sprintf("超支：TWD %d", -s.Remaining))
		}
	}
	if res.BudgetAnalysis != "" {
		body("AI 分析：" + res.BudgetAnalysis)
	}
	pdf.Ln(4)

	if res.Flight != nil {
		title(14, "機票")
		body(fmt.Sprintf("%s / %s", res.Flight.Airline, res.Flight.Price))
		if res.Flight.Link != "" {
			body(res.Flight.Link)
		}
		pdf.Ln(4)
	}

	if len(res.Activities) > 0 {
		title(14, "票券優惠")
		for _, act := range res.Activities {
			body(fmt.Sprintf("- %s (%s) %s", act.Name, strings.ToUpper(act.Platform), act.Price))
			if act.Link != "" {
				body("  " + act.Link)
			}
		}
		pdf.Ln(4)
	}

	title(14, "每日行程")
	for _, day := range res.DailyItinerary {
		title(12, fmt.Sprintf("Day %d：%s", day.Day, day.Theme))
		for _, spot := range day.Attractions {
			body(fmt.Sprintf("%s  %s", spot.Time, spot.Name))
			if spot.Description != "" {
				body("  " + spot.Description)
			}
		}
		pdf.Ln(2)
	}

	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return err
	}
	return pdf.OutputFileAndClose(filename)
}
