package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/asccclass/tripmate/cmd"
)

func main() {
	// 載入 envfile 檔案，沒有檔案就直接吃環境變數
	if err := godotenv.Load("envfile"); err != nil && !os.IsNotExist(err) {
		fmt.Printf("⚠️ [Main] envfile 檔案存在但無法載入: %v\n", err)
	}
	cmd.Execute()
}
