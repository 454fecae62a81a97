package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/invest_radar/app/invest_radar/pkg/logger"
)

const (
	// ReasonBackend 后端返回非 2xx
	ReasonBackend = "BACKEND_ERROR"
	// ReasonUnreachable 网络层失败
	ReasonUnreachable = "BACKEND_UNREACHABLE"
	// ReasonNoEndpoint 没有可用的后端地址
	ReasonNoEndpoint = "NO_ENDPOINT"
)

// BaseResolver 在每次调用时给出后端 base URL
type BaseResolver interface {
	Current(ctx context.Context) string
}

// Request 一次 HTTP 调用
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any // 非 nil 时以 JSON 发送
}

// Client 类 fetch 的 HTTP 调用能力：JSON 响应解析为对象，其余返回文本
type Client struct {
	base    BaseResolver
	origin  string
	client  *http.Client
	limiter *rate.Limiter
}

// NewClient 创建客户端。origin 为 base URL 为空（同源）时使用的页面源地址
func NewClient(base BaseResolver, origin string, timeout int, limiter *rate.Limiter) *Client {
	t := time.Duration(timeout) * time.Second
	if t == 0 {
		t = 30 * time.Second
	}
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 0)
	}
	return &Client{
		base:    base,
		origin:  strings.TrimRight(origin, "/"),
		client:  &http.Client{Timeout: t},
		limiter: limiter,
	}
}

// NewLimiter 按 RPM 限速，QPS 作为突发容量；RPM 为 0 时不限速
func NewLimiter(qps, rpm int) *rate.Limiter {
	if rpm <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := qps
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(float64(rpm)/60.0), burst)
}

// Do 执行请求，返回解析后的 JSON 值或原始文本
func (c *Client) Do(ctx context.Context, req Request) (any, error) {
	body, isJSON, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}
	if !isJSON {
		return string(body), nil
	}
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, fmt.Errorf("unmarshal response failed: %w", err)
	}
	return v, nil
}

// DoJSON 执行请求并将 JSON 响应解码到 out
func (c *Client) DoJSON(ctx context.Context, req Request, out any) error {
	body, isJSON, err := c.do(ctx, req)
	if err != nil {
		return err
	}
	if !isJSON {
		return fmt.Errorf("%s %s: expected json response, got text", req.Method, req.Path)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("unmarshal response failed: %w", err)
	}
	return nil
}

func (c *Client) buildURL(ctx context.Context, req Request) (string, error) {
	base := c.base.Current(ctx)
	if base == "" {
		base = c.origin
	}
	if base == "" {
		return "", errors.ServiceUnavailable(ReasonNoEndpoint, "no backend endpoint configured")
	}
	u := base + req.Path
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}
	return u, nil
}

func (c *Client) do(ctx context.Context, req Request) ([]byte, bool, error) {
	if req.Method == "" {
		req.Method = http.MethodGet
	}
	target, err := c.buildURL(ctx, req)
	if err != nil {
		return nil, false, err
	}

	var reader io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, false, fmt.Errorf("marshal request failed: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, false, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, reader)
	if err != nil {
		return nil, false, fmt.Errorf("create request failed: %w", err)
	}
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")
	requestID := uuid.NewString()
	httpReq.Header.Set("X-Request-ID", requestID)

	logger.Log.Debugf("%s %s (request_id=%s)", req.Method, target, requestID)

	res, err := c.client.Do(httpReq)
	if err != nil {
		return nil, false, errors.ServiceUnavailable(ReasonUnreachable, err.Error()).WithCause(err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, false, fmt.Errorf("read body failed: %w", err)
	}

	isJSON := strings.Contains(strings.ToLower(res.Header.Get("Content-Type")), "application/json")

	if res.StatusCode < 200 || res.StatusCode > 299 {
		detail := errorDetail(body, isJSON, res.StatusCode)
		logger.Log.Debugf("%s %s -> %d: %s", req.Method, req.Path, res.StatusCode, detail)
		return nil, false, errors.New(res.StatusCode, ReasonBackend, detail).
			WithMetadata(map[string]string{"path": req.Path, "request_id": requestID})
	}
	return body, isJSON, nil
}

// errorDetail 优先取响应体中的 error 字段，否则使用状态码
func errorDetail(body []byte, isJSON bool, status int) string {
	if isJSON {
		var payload map[string]any
		if err := json.Unmarshal(body, &payload); err == nil {
			switch v := payload["error"].(type) {
			case nil:
			case string:
				if v != "" {
					return v
				}
			case bool:
				if v {
					return "true"
				}
			default:
				return fmt.Sprint(v)
			}
		}
	}
	return strconv.Itoa(status)
}

// Detail 提取错误中可读的描述
func Detail(err error) string {
	if err == nil {
		return ""
	}
	if e := errors.FromError(err); e != nil && e.Message != "" {
		return e.Message
	}
	return err.Error()
}
