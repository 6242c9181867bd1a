package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config 儲存全域配置參數
// 一次在程式啟動時組好，之後整包傳給 Factory，避免散落各處的環境變數讀取
type Config struct {
	Provider string // gemini / groq / huggingface / ollama / ollama-remote

	// 各供應商的憑證，缺漏時由 Factory 在建構期報錯
	GoogleAPIKey      string
	GroqAPIKey        string
	HFToken           string
	OllamaHost        string
	RemoteOllamaHost  string
	RemoteOllamaToken string

	// 模型名稱，空字串代表使用各 Adapter 的預設值
	GeminiModel string
	GroqModel   string
	HFModel     string
	OllamaModel string

	// 搜尋前的隨機延遲區間 (防限流)，測試時可設 0
	SearchDelayMin time.Duration
	SearchDelayMax time.Duration

	ListenAddr  string // serve 指令的監聽位址
	OutputDir   string // PDF/Markdown 匯出目錄
	HistoryPath string // 行程歷史 SQLite 檔案
}

// fileOverrides 是 tripmate.yaml 可覆寫的欄位 (模型與延遲參數)
type fileOverrides struct {
	GeminiModel    string  `yaml:"gemini_model"`
	GroqModel      string  `yaml:"groq_model"`
	HFModel        string  `yaml:"hf_model"`
	OllamaModel    string  `yaml:"ollama_model"`
	SearchDelayMin float64 `yaml:"search_delay_min"`
	SearchDelayMax float64 `yaml:"search_delay_max"`
}

// LoadConfig 負責初始化配置，支援 envfile 檔案與環境變數
// 讀取順序：envfile -> 環境變數 -> tripmate.yaml 覆寫
func LoadConfig() *Config {
	_ = godotenv.Load("envfile")

	cfg := &Config{
		Provider:          getEnv("TRIPMATE_PROVIDER", "ollama"),
		GoogleAPIKey:      getEnv("GOOGLE_API_KEY", ""),
		GroqAPIKey:        getEnv("GROQ_API_KEY", ""),
		HFToken:           getEnv("HF_TOKEN", ""),
		OllamaHost:        getEnv("OLLAMA_HOST", "http://localhost:11434"),
		RemoteOllamaHost:  getEnv("REMOTE_OLLAMA_HOST", ""),
		RemoteOllamaToken: getEnv("REMOTE_OLLAMA_TOKEN", ""),
		GeminiModel:       getEnv("TRIPMATE_GEMINI_MODEL", ""),
		GroqModel:         getEnv("TRIPMATE_GROQ_MODEL", ""),
		HFModel:           getEnv("TRIPMATE_HF_MODEL", ""),
		OllamaModel:       getEnv("TRIPMATE_OLLAMA_MODEL", ""),
		SearchDelayMin:    getEnvSeconds("TRIPMATE_SEARCH_DELAY_MIN", 1*time.Second),
		SearchDelayMax:    getEnvSeconds("TRIPMATE_SEARCH_DELAY_MAX", 2*time.Second),
		ListenAddr:        getEnv("TRIPMATE_LISTEN", ":8089"),
		OutputDir:         getEnv("TRIPMATE_OUTPUT_DIR", "./exports"),
		HistoryPath:       getEnv("TRIPMATE_HISTORY_PATH", "./tripmate.db"),
	}

	if err := cfg.applyFile("tripmate.yaml"); err != nil {
		fmt.Printf("⚠️ [Config] tripmate.yaml 無法載入: %v\n", err)
	}
	return cfg
}

// applyFile 套用 yaml 設定檔的覆寫值，檔案不存在不算錯誤
func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var o fileOverrides
	if err := yaml.Unmarshal(data, &o); err != nil {
		return err
	}

	if o.GeminiModel != "" {
		c.GeminiModel = o.GeminiModel
	}
	if o.GroqModel != "" {
		c.GroqModel = o.GroqModel
	}
	if o.HFModel != "" {
		c.HFModel = o.HFModel
	}
	if o.OllamaModel != "" {
		c.OllamaModel = o.OllamaModel
	}
	if o.SearchDelayMin > 0 {
		c.SearchDelayMin = time.Duration(o.SearchDelayMin * float64(time.Second))
	}
	if o.SearchDelayMax > 0 {
		c.SearchDelayMax = time.Duration(o.SearchDelayMax * float64(time.Second))
	}
	return nil
}

// getEnv 是輔助函式，用來處理環境變數與預設值的邏輯
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// getEnvSeconds 以秒為單位讀取延遲設定
func getEnvSeconds(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	sec, err := strconv.ParseFloat(v, 64)
	if err != nil || sec < 0 {
		return fallback
	}
	return time.Duration(sec * float64(time.Second))
}
