package search

import (
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html"
)

const (
	htmlEndpoint  = "https://html.duckduckgo.com/html/"
	imageEndpoint = "https://duckduckgo.com/i.js"
	vqdEndpoint   = "https://duckduckgo.com/"

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// ErrRateLimited 表示被 DuckDuckGo 限流，呼叫端可以等待後重試
var ErrRateLimited = errors.New("search rate limited")

// Result 是文字搜尋的單筆結果
type Result struct {
	Title   string
	Link    string
	Snippet string
}

// ImageResult 是圖片搜尋的單筆結果
type ImageResult struct {
	Title string
	Image string
	URL   string
}

// Client 透過 DuckDuckGo 的 HTML 介面做免金鑰網頁搜尋
// 每次請求前會隨機延遲 DelayMin~DelayMax，降低被限流的機率（測試時可設 0）
type Client struct {
	http     *resty.Client
	DelayMin time.Duration
	DelayMax time.Duration
}

// NewClient 建立搜尋客戶端
func NewClient() *Client {
	return &Client{
		http: resty.New().
			SetTimeout(20 * time.Second).
			SetRedirectPolicy(resty.FlexibleRedirectPolicy(5)).
			SetHeader("User-Agent", userAgent),
		DelayMin: 1 * time.Second,
		DelayMax: 2 * time.Second,
	}
}

// SetDelay 調整請求前的隨機延遲區間
func (c *Client) SetDelay(min, max time.Duration) {
	c.DelayMin, c.DelayMax = min, max
}

func (c *Client) sleepJitter() {
	if c.DelayMax <= 0 {
		return
	}
	span := c.DelayMax - c.DelayMin
	d := c.DelayMin
	if span > 0 {
		d += time.Duration(rand.Int63n(int64(span)))
	}
	time.Sleep(d)
}

// Text 執行文字搜尋，region 使用 DuckDuckGo 的地區碼 (例如 "tw-tzh", "wt-wt")
func (c *Client) Text(query, region string, maxResults int) ([]Result, error) {
	c.sleepJitter()

	resp, err := c.http.R().
		SetFormData(map[string]string{
			"q":  query,
			"kl": region,
		}).
		Post(htmlEndpoint)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}

	if resp.StatusCode() == http.StatusTooManyRequests || resp.StatusCode() == http.StatusForbidden {
		return nil, fmt.Errorf("duckduckgo returned %d: %w", resp.StatusCode(), ErrRateLimited)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("duckduckgo returned status %d", resp.StatusCode())
	}

	results, err := parseTextResults(resp.String())
	if err != nil {
		return nil, err
	}
	if maxResults > 0 && len(results) > maxResults {
		results = results[:maxResults]
	}
	return results, nil
}

// Images 執行圖片搜尋
// DuckDuckGo 的圖片 API 需要先取得 vqd token，失敗率比文字搜尋高，
// 呼叫端應將其結果視為可有可無
func (c *Client) Images(query string, maxResults int) ([]ImageResult, error) {
	c.sleepJitter()

	vqd, err := c.fetchVQD(query)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Results []struct {
			Title string `json:"title"`
			Image string `json:"image"`
			URL   string `json:"url"`
		} `json:"results"`
	}

	resp, err := c.http.R().
		SetQueryParams(map[string]string{
			"l":   "wt-wt",
			"o":   "json",
			"q":   query,
			"vqd": vqd,
		}).
		SetResult(&payload).
		Get(imageEndpoint)
	if err != nil {
		return nil, fmt.Errorf("image search failed: %w", err)
	}
	if resp.StatusCode() == http.StatusTooManyRequests || resp.StatusCode() == http.StatusForbidden {
		return nil, fmt.Errorf("duckduckgo returned %d: %w", resp.StatusCode(), ErrRateLimited)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("duckduckgo image returned status %d", resp.StatusCode())
	}

	out := make([]ImageResult, 0, len(payload.Results))
	for _, r := range payload.Results {
		out = append(out, ImageResult{Title: r.Title, Image: r.Image, URL: r.URL})
		if maxResults > 0 && len(out) >= maxResults {
			break
		}
	}
	return out, nil
}

var vqdPattern = regexp.MustCompile(`vqd=['"]([\d-]+)['"]`)

// fetchVQD 從搜尋頁抽出圖片 API 需要的 token
func (c *Client) fetchVQD(query string) (string, error) {
	resp, err := c.http.R().
		SetQueryParams(map[string]string{"q": query, "iax": "images", "ia": "images"}).
		Get(vqdEndpoint)
	if err != nil {
		return "", fmt.Errorf("vqd request failed: %w", err)
	}
	m := vqdPattern.FindStringSubmatch(resp.String())
	if m == nil {
		return "", errors.New("vqd token not found")
	}
	return m[1], nil
}

// parseTextResults 解析 DuckDuckGo HTML 版搜尋結果頁
func parseTextResults(page string) ([]Result, error) {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("failed to parse result page: %w", err)
	}

	var results []Result
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			switch {
			case hasClass(n, "result__a"):
				results = append(results, Result{
					Title: textContent(n),
					Link:  cleanLink(attr(n, "href")),
				})
			case hasClass(n, "result__snippet"):
				if len(results) > 0 && results[len(results)-1].Snippet == "" {
					results[len(results)-1].Snippet = textContent(n)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return results, nil
}

// cleanLink 還原 DuckDuckGo 的轉址連結 (//duckduckgo.com/l/?uddg=...)
func cleanLink(href string) string {
	if href == "" {
		return ""
	}
	if strings.Contains(href, "uddg=") {
		if u, err := url.Parse(href); err == nil {
			if real := u.Query().Get("uddg"); real != "" {
				return real
			}
		}
	}
	if strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	return href
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}
