package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/asccclass/tripmate/export"
	"github.com/asccclass/tripmate/internal/config"
	"github.com/asccclass/tripmate/internal/history"
	"github.com/asccclass/tripmate/internal/search"
	"github.com/asccclass/tripmate/llms"
	"github.com/asccclass/tripmate/prompts"
	"github.com/asccclass/tripmate/tools"
	"github.com/asccclass/tripmate/trip"
)

var (
	planProvider  string
	planOrigin    string
	planDest      string
	planDays      int
	planDate      string
	planBudget    int
	planInterests []string
	planNoFlights bool
	planPDF       bool
	planMarkdown  bool
	planNoSave    bool

	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

func init() {
	planCmd.Flags().StringVarP(&planProvider, "provider", "p", "", "LLM 後端 (gemini/groq/huggingface/ollama/ollama-remote)")
	planCmd.Flags().StringVar(&planOrigin, "from", "台北", "出發地")
	planCmd.Flags().StringVarP(&planDest, "to", "t", "", "目的地 (必填)")
	planCmd.Flags().IntVar(&planDays, "days", 5, "天數")
	planCmd.Flags().StringVar(&planDate, "date", "", "出發日期 YYYY-MM-DD (預設今天)")
	planCmd.Flags().IntVar(&planBudget, "budget", 30000, "總預算 (TWD)")
	planCmd.Flags().StringSliceVar(&planInterests, "interests", []string{"在地美食", "購物血拼"}, "興趣標籤")
	planCmd.Flags().BoolVar(&planNoFlights, "no-flights", false, "不查機票，flight 欄位填 null")
	planCmd.Flags().BoolVar(&planPDF, "pdf", false, "匯出 PDF")
	planCmd.Flags().BoolVar(&planMarkdown, "md", false, "匯出 Markdown")
	planCmd.Flags().BoolVar(&planNoSave, "no-save", false, "不寫入行程歷史")
	_ = planCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(planCmd)
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "生成一份旅遊行程",
	Run:   runPlan,
}

func runPlan(c *cobra.Command, args []string) {
	cfg := config.LoadConfig()
	if planProvider != "" {
		cfg.Provider = planProvider
	}

	searcher := search.NewClient()
	searcher.SetDelay(cfg.SearchDelayMin, cfg.SearchDelayMax)
	registry := tools.NewTravelRegistry(searcher)

	ctx := context.Background()
	provider, err := llms.New(ctx, cfg, registry)
	if err != nil {
		fmt.Println(warnStyle.Render(fmt.Sprintf("❌ 後端建立失敗: %v", err)))
		os.Exit(1)
	}

	date := planDate
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	req := trip.Request{
		Origin:        planOrigin,
		Destination:   planDest,
		Days:          planDays,
		StartDate:     date,
		Budget:        planBudget,
		Interests:     planInterests,
		EnableFlights: !planNoFlights,
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("🌍 %s 正在根據您的 TWD %d 預算規劃 %s %d 天行程...",
		provider.Name(), req.Budget, req.Destination, req.Days)))

	raw := provider.GenerateTrip(ctx, prompts.UserPrompt(req), req.EnableFlights)

	result, err := trip.Parse(raw)
	if err != nil {
		// 模型沒吐出合法 JSON，把原文印出來讓使用者自行判讀
		fmt.Println(warnStyle.Render(fmt.Sprintf("❌ JSON 解析失敗: %v", err)))
		fmt.Println(raw)
		os.Exit(1)
	}

	renderResult(result, req.Budget)

	if !planNoSave {
		if store, err := history.NewStore(cfg.HistoryPath); err == nil {
			if _, err := store.Save(ctx, provider.Name(), req, result); err != nil {
				fmt.Println(warnStyle.Render(fmt.Sprintf("⚠️ 行程紀錄儲存失敗: %v", err)))
			}
			store.Close()
		}
	}

	exportFiles(cfg, result, req.Budget)
}

// renderResult 用 glamour 在終端渲染 Markdown 行程
func renderResult(res *trip.Result, budget int) {
	md := export.Markdown(res, budget)

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(0), // 自動適配終端寬度，不強制切斷
	)
	if err != nil {
		fmt.Println(md)
		return
	}

	out, err := renderer.Render(md)
	if err != nil {
		fmt.Println(md)
		return
	}
	fmt.Print(out)
}

func exportFiles(cfg *config.Config, res *trip.Result, budget int) {
	if !planPDF && !planMarkdown {
		return
	}

	base := filepath.Join(cfg.OutputDir, fmt.Sprintf("trip_%s", time.Now().Format("20060102_150405")))

	if planMarkdown {
		path := base + ".md"
		if err := export.SaveAsMarkdown(path, res, budget); err != nil {
			fmt.Println(warnStyle.Render(fmt.Sprintf("⚠️ Markdown 匯出失敗: %v", err)))
		} else {
			fmt.Printf("📄 已匯出 %s\n", path)
		}
	}
	if planPDF {
		path := base + ".pdf"
		if err := export.SaveAsPDF(path, res, budget); err != nil {
			fmt.Println(warnStyle.Render(fmt.Sprintf("⚠️ PDF 匯出失敗: %v", err)))
		} else {
			fmt.Printf("📄 已匯出 %s\n", path)
		}
	}
}
