package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/asccclass/tripmate/internal/search"
)

// TicketResult 是 search_activity_tickets 回傳給模型的資料
type TicketResult struct {
	Type     string `json:"type"`
	Platform string `json:"platform"`
	Title    string `json:"title"`
	Link     string `json:"link"`
	Image    string `json:"image"`
	Price    string `json:"price"`
}

type ticketPlatform struct {
	site       string
	searchBase string
	logo       string
}

var ticketPlatforms = map[string]ticketPlatform{
	"klook": {
		site:       "klook.com",
		searchBase: "https://www.klook.com/zh-TW/search?text=",
		logo:       "https://cdn6.agoda.net/images/mv8/logo/klook_logo_multi_language.png",
	},
	"kkday": {
		site:       "kkday.com",
		searchBase: "https://www.kkday.com/zh-tw/product/productlist?keyword=",
		logo:       "https://cdn.kkday.com/m-s/static/img/logo/kkday_logo_2.svg",
	},
}

// TicketSearchTool 搜尋 Klook/KKday 票券，嘗試抓取標題、連結與圖片
// 公開合約：永遠不會空手而歸，搜尋失敗時退回平台搜尋頁連結 + 平台 Logo
type TicketSearchTool struct {
	searcher Searcher
	// Backoff 是觸發限流後的基礎冷卻時間 (線性遞增)，測試時可設 0
	Backoff time.Duration
}

func NewTicketSearchTool(s Searcher) *TicketSearchTool {
	return &TicketSearchTool{searcher: s, Backoff: 3 * time.Second}
}

func (t *TicketSearchTool) Name() string { return "search_activity_tickets" }

func (t *TicketSearchTool) Definition() Tool {
	return Tool{
		Type: "function",
		Function: ToolFunction{
			Name:        "search_activity_tickets",
			Description: "搜尋景點門票 (Klook/KKday)",
			Parameters: ToolParameters{
				Type: "object",
				Properties: map[string]ToolProperty{
					"keyword":  {Type: "string", Description: "景點或活動關鍵字"},
					"platform": {Type: "string", Enum: []string{"klook", "kkday"}},
				},
				Required: []string{"keyword", "platform"},
			},
		},
	}
}

func (t *TicketSearchTool) Run(argsJSON string) (string, error) {
	var raw struct {
		Keyword  interface{} `json:"keyword"`
		Platform interface{} `json:"platform"`
	}
	if err := json.Unmarshal([]byte(argsJSON), &raw); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}

	keyword := ToString(raw.Keyword)
	platform := strings.ToLower(ToString(raw.Platform))
	if _, ok := ticketPlatforms[platform]; !ok {
		platform = "klook"
	}

	fmt.Printf("🎫 [Tool] 搜尋票券: %s (%s)\n", keyword, platform)

	res := t.search(keyword, platform)
	out, err := json.Marshal(res)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (t *TicketSearchTool) search(keyword, platform string) TicketResult {
	p := ticketPlatforms[platform]

	// 保底結果：平台搜尋頁 + 平台 Logo
	res := TicketResult{
		Type:     "ticket",
		Platform: platform,
		Title:    fmt.Sprintf("%s - %s 優惠", keyword, strings.ToUpper(platform)),
		Link:     p.searchBase + url.QueryEscape(keyword),
		Image:    p.logo,
		Price:    "查看優惠",
	}

	const maxRetries = 2
	for attempt := 0; attempt <= maxRetries; attempt++ {
		query := fmt.Sprintf("site:%s %s 票", p.site, keyword)
		hits, err := t.searcher.Text(query, "wt-wt", 1)
		if err != nil {
			// 限流可以等，其他錯誤 (協定層、解析) 重試也沒用，直接用保底連結
			if errors.Is(err, search.ErrRateLimited) && attempt < maxRetries {
				wait := t.Backoff * time.Duration(attempt+1)
				fmt.Printf("⏳ [Tool] 觸發頻率限制，冷卻 %v 後重試 (%d/%d)...\n", wait, attempt+1, maxRetries)
				time.Sleep(wait)
				continue
			}
			fmt.Printf("⚠️ [Tool] 票券搜尋失敗，使用保底連結: %v\n", err)
			break
		}

		if len(hits) > 0 {
			top := hits[0]
			if top.Title != "" {
				res.Title = top.Title
			}
			// 過短的連結多半是抓到奇怪的轉址殘骸
			if len(top.Link) > 15 {
				res.Link = top.Link
			}
		}

		// 圖片搜尋最容易出錯，失敗就繼續用 Logo，不影響主流程
		imgQuery := fmt.Sprintf("%s scenery %s", keyword, p.site)
		if imgs, imgErr := t.searcher.Images(imgQuery, 1); imgErr == nil && len(imgs) > 0 {
			res.Image = imgs[0].Image
		} else if imgErr != nil {
			fmt.Printf("⚠️ [Tool] 圖片搜尋失敗 (不影響主流程): %v\n", imgErr)
		}
		break
	}

	return res
}
