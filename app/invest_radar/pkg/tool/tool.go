// Package tool 抽象 WebMCP 工具调用：Native 转发给外部宿主提供的能力，
// Simulated 在没有宿主时返回带延迟的固定结果。Dispatcher 在每次调用时探测宿主，
// 调用方无需关心当前使用哪一种实现。
package tool

import "context"

// 信号工具名称
const (
	AnalyzeFinancials  = "analyze_financials"
	CheckFounders      = "check_founders"
	GetSocialSentiment = "get_social_sentiment"
)

// Params 工具参数
type Params map[string]any

// Result 工具结果
type Result map[string]any

// Executor 工具执行函数
type Executor func(ctx context.Context, params Params) (Result, error)

// Property 参数描述
type Property struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// Schema 参数 schema
type Schema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required,omitempty"`
}

// Descriptor 工具描述
type Descriptor struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Parameters  Schema   `json:"parameters"`
	Execute     Executor `json:"-"`
}

// Host 外部注入的原生工具能力
type Host interface {
	RegisterTool(ctx context.Context, d Descriptor) error
	ExecuteTool(ctx context.Context, name string, params Params) (Result, error)
}

// Protocol 工具协议
type Protocol interface {
	Host
	// Simulated 是否为模拟实现
	Simulated() bool
}

// Lister 可列出已注册工具的实现
type Lister interface {
	Tools() []Descriptor
}
