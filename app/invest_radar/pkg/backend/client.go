package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/iWorld-y/invest_radar/app/invest_radar/pkg/fetch"
	"github.com/iWorld-y/invest_radar/app/invest_radar/pkg/logger"
	"github.com/iWorld-y/invest_radar/app/invest_radar/pkg/model"
)

// Settings 后端设置，仅 demo_mode 参与分析流程
type Settings struct {
	DemoMode           bool   `json:"demo_mode"`
	CoingeckoAPIKey    string `json:"coingecko_api_key,omitempty"`
	RedditClientID     string `json:"reddit_client_id,omitempty"`
	RedditClientSecret string `json:"reddit_client_secret,omitempty"`
	RedditUserAgent    string `json:"reddit_user_agent,omitempty"`
	TelegramBotToken   string `json:"telegram_bot_token,omitempty"`
	TelegramChatID     string `json:"telegram_chat_id,omitempty"`
}

// Client 分析后端 API 客户端
type Client struct {
	fetch *fetch.Client
}

// NewClient 创建后端客户端
func NewClient(f *fetch.Client) *Client {
	return &Client{fetch: f}
}

// Health GET /api/health
func (c *Client) Health(ctx context.Context) error {
	return c.fetch.DoJSON(ctx, fetch.Request{Path: "/api/health"}, nil)
}

// Settings GET /api/settings
func (c *Client) Settings(ctx context.Context) (*Settings, error) {
	var s Settings
	if err := c.fetch.DoJSON(ctx, fetch.Request{Path: "/api/settings"}, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// SaveSettings POST /api/settings，返回合并后的设置
func (c *Client) SaveSettings(ctx context.Context, s *Settings) (*Settings, error) {
	var out Settings
	req := fetch.Request{Method: http.MethodPost, Path: "/api/settings", Body: s}
	if err := c.fetch.DoJSON(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DemoMode 获取 demo 标记，失败时返回 false，不阻塞分析
func (c *Client) DemoMode(ctx context.Context) bool {
	s, err := c.Settings(ctx)
	if err != nil {
		logger.Log.Debugf("读取后端设置失败，demo_mode=false: %s", fetch.Detail(err))
		return false
	}
	return s.DemoMode
}

// Analyze GET /api/analyze，结果原样信任
func (c *Client) Analyze(ctx context.Context, entity string, demo bool) (*model.AnalysisResult, error) {
	q := url.Values{}
	q.Set("entity", entity)
	q.Set("demo_mode", strconv.FormatBool(demo))

	var res model.AnalysisResult
	if err := c.fetch.DoJSON(ctx, fetch.Request{Path: "/api/analyze", Query: q}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

type portfolioResponse struct {
	Items []model.AnalysisResult `json:"items"`
}

// Portfolio GET /api/portfolio，顺序与后端一致
func (c *Client) Portfolio(ctx context.Context) ([]model.AnalysisResult, error) {
	var resp portfolioResponse
	if err := c.fetch.DoJSON(ctx, fetch.Request{Path: "/api/portfolio"}, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

type watchlistResponse struct {
	Watchlist []string `json:"watchlist"`
}

// AddWatchlist POST /api/watchlist
func (c *Client) AddWatchlist(ctx context.Context, entity string) ([]string, error) {
	var resp watchlistResponse
	req := fetch.Request{
		Method: http.MethodPost,
		Path:   "/api/watchlist",
		Body:   map[string]string{"entity": entity},
	}
	if err := c.fetch.DoJSON(ctx, req, &resp); err != nil {
		return nil, err
	}
	return resp.Watchlist, nil
}
