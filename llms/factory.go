package llms

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/asccclass/tripmate/internal/config"
	"github.com/asccclass/tripmate/llms/gemini"
	"github.com/asccclass/tripmate/tools"
)

var (
	// ErrUnknownProvider 表示設定了不支援的供應商名稱
	ErrUnknownProvider = errors.New("unsupported provider")

	// ErrMissingCredential 表示選用的供應商缺少必要的憑證
	// 這類錯誤無法在執行期補救，建構時就直接失敗
	ErrMissingCredential = errors.New("missing credential")
)

// New 依供應商名稱建構對應的 Provider
// 目前支援: "gemini", "groq", "huggingface", "ollama" (預設), "ollama-remote"
func New(ctx context.Context, cfg *config.Config, reg *tools.Registry) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "gemini":
		if cfg.GoogleAPIKey == "" {
			return nil, fmt.Errorf("%w: GOOGLE_API_KEY (Google Gemini)", ErrMissingCredential)
		}
		return gemini.New(ctx, cfg.GoogleAPIKey, cfg.GeminiModel, reg)

	case "groq":
		if cfg.GroqAPIKey == "" {
			return nil, fmt.Errorf("%w: GROQ_API_KEY (Groq)", ErrMissingCredential)
		}
		return NewGroq(cfg.GroqAPIKey, cfg.GroqModel, reg), nil

	case "huggingface", "hf":
		if cfg.HFToken == "" {
			return nil, fmt.Errorf("%w: HF_TOKEN (Hugging Face)", ErrMissingCredential)
		}
		return NewHuggingFace(cfg.HFToken, cfg.HFModel, reg), nil

	case "ollama", "": // 預設為本機 Ollama
		return NewOllama("Local Ollama", cfg.OllamaHost, "", cfg.OllamaModel, reg), nil

	case "ollama-remote":
		if cfg.RemoteOllamaHost == "" {
			return nil, fmt.Errorf("%w: REMOTE_OLLAMA_HOST (Remote Ollama)", ErrMissingCredential)
		}
		return NewOllama("Remote Ollama", cfg.RemoteOllamaHost, cfg.RemoteOllamaToken, cfg.OllamaModel, reg), nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Provider)
	}
}
