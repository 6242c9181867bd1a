package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd 代表基礎指令，當不帶任何子指令執行時觸發
var rootCmd = &cobra.Command{
	Use:   "tripmate",
	Short: "AI 全能旅遊規劃師",
	Long:  `用 LLM + 比價工具自動生成旅遊行程：預算分析、機票比價連結、Klook/KKday 票券與每日行程。`,
}

// Execute 將所有子指令註冊到根指令並執行
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
