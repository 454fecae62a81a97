// Package endpoint 解析后端调用使用的 base URL。
//
// 持久化的地址只在读取时做信任过滤：页面本身不在本机时，
// 指向 localhost/127.0.0.1 的旧配置会被删除并回退到默认值，
// 避免远程页面借陈旧配置访问用户本机服务。写入不做过滤。
package endpoint

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/iWorld-y/invest_radar/app/invest_radar/pkg/kv"
	"github.com/iWorld-y/invest_radar/app/invest_radar/pkg/logger"
)

// StorageKey 持久化键名
const StorageKey = "investai_api_base"

// LocalDefault 本地文件上下文下的默认后端地址
const LocalDefault = "http://localhost:5001"

var loopbackHosts = []string{"localhost", "127.0.0.1"}

// Page 当前执行上下文
type Page struct {
	Protocol string // "file:", "http:", "https:"
	Hostname string
	Host     string // hostname[:port]
}

// ParsePage 从页面地址解析执行上下文，空地址视为本地文件
func ParsePage(raw string) (Page, error) {
	if strings.TrimSpace(raw) == "" {
		return Page{Protocol: "file:"}, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return Page{}, fmt.Errorf("invalid page url %q: %w", raw, err)
	}
	return Page{
		Protocol: strings.ToLower(u.Scheme) + ":",
		Hostname: strings.ToLower(u.Hostname()),
		Host:     strings.ToLower(u.Host),
	}, nil
}

// IsFile 页面是否从本地文件加载
func (p Page) IsFile() bool {
	return p.Protocol == "file:"
}

// IsLoopback 页面是否运行在本机
func (p Page) IsLoopback() bool {
	for _, h := range loopbackHosts {
		if p.Hostname == h {
			return true
		}
	}
	return false
}

// Origin 页面源地址，用于同源请求；本地文件没有源
func (p Page) Origin() string {
	if p.IsFile() || p.Host == "" {
		return ""
	}
	return p.Protocol + "//" + p.Host
}

// DefaultBase 本地文件返回 LocalDefault，否则为空（同源）
func (p Page) DefaultBase() string {
	if p.IsFile() {
		return LocalDefault
	}
	return ""
}

// Resolution 解析结果，Reset 表示持久化值因不可信被清除
type Resolution struct {
	BaseURL string
	Reset   bool
}

// Resolver 端点解析器
type Resolver struct {
	store kv.Store
	page  Page
}

// NewResolver 创建解析器
func NewResolver(store kv.Store, page Page) *Resolver {
	return &Resolver{store: store, page: page}
}

// Page 返回执行上下文
func (r *Resolver) Page() Page {
	return r.page
}

// Normalize 去除首尾空白和末尾的斜杠
func Normalize(base string) string {
	return strings.TrimRight(strings.TrimSpace(base), "/")
}

func pointsAtLoopback(base string) bool {
	lower := strings.ToLower(base)
	for _, h := range loopbackHosts {
		if strings.Contains(lower, h) {
			return true
		}
	}
	return false
}

// Resolve 读取并过滤持久化的地址
func (r *Resolver) Resolve(ctx context.Context) (Resolution, error) {
	def := r.page.DefaultBase()

	raw, err := r.store.Get(ctx, StorageKey)
	if errors.Is(err, kv.ErrNotFound) {
		return Resolution{BaseURL: def}, nil
	}
	if err != nil {
		return Resolution{}, fmt.Errorf("read %s: %w", StorageKey, err)
	}

	stored := Normalize(raw)
	if !r.page.IsLoopback() && pointsAtLoopback(stored) {
		if err := r.store.Delete(ctx, StorageKey); err != nil {
			return Resolution{}, fmt.Errorf("reset %s: %w", StorageKey, err)
		}
		logger.Log.Warnf("已丢弃指向本机的后端地址 %q，页面主机为 %q", stored, r.page.Hostname)
		return Resolution{BaseURL: def, Reset: true}, nil
	}

	if stored == "" {
		return Resolution{BaseURL: def}, nil
	}
	return Resolution{BaseURL: stored}, nil
}

// Current 返回当前可用的地址，存储出错时回退到默认值
func (r *Resolver) Current(ctx context.Context) string {
	res, err := r.Resolve(ctx)
	if err != nil {
		logger.Log.Errorf("解析后端地址失败，使用默认值: %v", err)
		return r.page.DefaultBase()
	}
	return res.BaseURL
}

// SetEndpoint 无条件持久化规范化后的地址
func (r *Resolver) SetEndpoint(ctx context.Context, value string) error {
	if err := r.store.Set(ctx, StorageKey, Normalize(value)); err != nil {
		return fmt.Errorf("write %s: %w", StorageKey, err)
	}
	return nil
}
