package webapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/asccclass/tripmate/internal/config"
	"github.com/asccclass/tripmate/internal/history"
	"github.com/asccclass/tripmate/llms"
	"github.com/asccclass/tripmate/prompts"
	"github.com/asccclass/tripmate/tools"
	"github.com/asccclass/tripmate/trip"
)

// TripHandler 負責行程生成與歷史查詢的 API
type TripHandler struct {
	cfg      *config.Config
	registry *tools.Registry
	store    *history.Store
}

// NewTripHandler 建立新的 Trip Handler，store 可為 nil (不記錄歷史)
func NewTripHandler(cfg *config.Config, registry *tools.Registry, store *history.Store) *TripHandler {
	return &TripHandler{cfg: cfg, registry: registry, store: store}
}

// AddRoutes 註冊 API 路由
func (h *TripHandler) AddRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/trip", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.handleGenerate(w, r)
	})
	mux.HandleFunc("/api/trips", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.handleList(w, r)
	})
}

type generateRequest struct {
	Provider      string   `json:"provider"` // 空值時用設定檔的預設後端
	Origin        string   `json:"origin"`
	Destination   string   `json:"destination"`
	Days          int      `json:"days"`
	StartDate     string   `json:"start_date"`
	Budget        int      `json:"budget"`
	Interests     []string `json:"interests"`
	EnableFlights bool     `json:"enable_flights"`
}

// handleGenerate 執行一次完整的行程生成
func (h *TripHandler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Destination == "" {
		writeError(w, http.StatusBadRequest, "destination is required")
		return
	}
	if req.Days <= 0 {
		req.Days = 1
	}

	// 每個請求可以指定不同後端，憑證仍然來自啟動時載入的設定
	cfg := *h.cfg
	if req.Provider != "" {
		cfg.Provider = req.Provider
	}

	provider, err := llms.New(r.Context(), &cfg, h.registry)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, llms.ErrUnknownProvider) || errors.Is(err, llms.ErrMissingCredential) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}

	tripReq := trip.Request{
		Origin:        req.Origin,
		Destination:   req.Destination,
		Days:          req.Days,
		StartDate:     req.StartDate,
		Budget:        req.Budget,
		Interests:     req.Interests,
		EnableFlights: req.EnableFlights,
	}

	raw := provider.GenerateTrip(r.Context(), prompts.UserPrompt(tripReq), tripReq.EnableFlights)

	result, err := trip.Parse(raw)
	if err != nil {
		// 模型不聽話時把原文一併回去，前端才有辦法除錯
		writeJSON(w, http.StatusBadGateway, map[string]string{
			"error": fmt.Sprintf("JSON 解析失敗: %v", err),
			"raw":   raw,
		})
		return
	}

	var id int64
	if h.store != nil {
		if id, err = h.store.Save(r.Context(), provider.Name(), tripReq, result); err != nil {
			fmt.Printf("⚠️ [WebAPI] 行程紀錄儲存失敗: %v\n", err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":     id,
		"result": result,
		"budget": trip.Summarize(result, tripReq.Budget),
	})
}

// handleList 回傳最近生成的行程
func (h *TripHandler) handleList(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusNotFound, "history is disabled")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := h.store.List(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if entries == nil {
		entries = []history.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
