package cmd

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/asccclass/tripmate/internal/config"
	"github.com/asccclass/tripmate/internal/history"
	"github.com/asccclass/tripmate/internal/search"
	"github.com/asccclass/tripmate/internal/webapi"
	"github.com/asccclass/tripmate/tools"
)

var serveAddr string

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "listen", "l", "", "監聽位址 (預設讀取設定)")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "啟動行程生成 API 伺服器",
	Long:  `提供 POST /api/trip (生成行程) 與 GET /api/trips (歷史查詢) 兩個端點。`,
	Run:   runServe,
}

func runServe(c *cobra.Command, args []string) {
	cfg := config.LoadConfig()
	if serveAddr != "" {
		cfg.ListenAddr = serveAddr
	}

	searcher := search.NewClient()
	searcher.SetDelay(cfg.SearchDelayMin, cfg.SearchDelayMax)
	registry := tools.NewTravelRegistry(searcher)

	store, err := history.NewStore(cfg.HistoryPath)
	if err != nil {
		fmt.Printf("⚠️ [Serve] 行程歷史停用 (%v)\n", err)
		store = nil
	} else {
		defer store.Close()
	}

	mux := http.NewServeMux()
	webapi.NewTripHandler(cfg, registry, store).AddRoutes(mux)

	fmt.Printf("🚀 [Serve] Tripmate API 啟動於 %s\n", cfg.ListenAddr)
	if err := http.ListenAndServe(cfg.ListenAddr, mux); err != nil {
		fmt.Printf("❌ [Serve] 伺服器異常結束: %v\n", err)
		os.Exit(1)
	}
}
