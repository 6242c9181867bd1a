package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/asccclass/tripmate/export"
	"github.com/asccclass/tripmate/internal/config"
	"github.com/asccclass/tripmate/internal/history"
)

var (
	historyLimit int
	historyShow  int64
)

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "顯示筆數")
	historyCmd.Flags().Int64Var(&historyShow, "show", 0, "顯示指定編號的完整行程")
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "查看已生成的行程紀錄",
	Run:   runHistory,
}

func runHistory(c *cobra.Command, args []string) {
	cfg := config.LoadConfig()

	store, err := history.NewStore(cfg.HistoryPath)
	if err != nil {
		fmt.Printf("❌ 無法開啟行程歷史: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx := context.Background()

	if historyShow > 0 {
		entry, err := store.Get(ctx, historyShow)
		if err != nil {
			fmt.Printf("❌ 找不到編號 %d 的行程: %v\n", historyShow, err)
			os.Exit(1)
		}
		fmt.Print(export.Markdown(&entry.Result, entry.Budget))
		return
	}

	entries, err := store.List(ctx, historyLimit)
	if err != nil {
		fmt.Printf("❌ 讀取行程歷史失敗: %v\n", err)
		os.Exit(1)
	}
	if len(entries) == 0 {
		fmt.Println("尚無行程紀錄，先用 tripmate plan 生成一份吧！")
		return
	}

	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	for _, e := range entries {
		fmt.Printf("#%d %s → %s (%d 天, TWD %d) %s\n",
			e.ID, e.Origin, e.Destination, e.Days, e.Budget,
			dim.Render(fmt.Sprintf("[%s] %s", e.Provider, e.CreatedAt.Format("2006-01-02 15:04"))))
	}
}
