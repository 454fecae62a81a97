package tool

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/iWorld-y/invest_radar/app/invest_radar/pkg/model"
)

// DefaultSimDelay 模拟异步 I/O 的固定延迟
const DefaultSimDelay = 350 * time.Millisecond

// Simulated 无宿主时的模拟实现，结果与实体无关
type Simulated struct {
	delay time.Duration

	mu    sync.RWMutex
	tools map[string]Descriptor
}

// Ensure Simulated implements Protocol
var _ Protocol = (*Simulated)(nil)

// NewSimulated 创建模拟实现，delay 为 0 时不等待
func NewSimulated(delay time.Duration) *Simulated {
	return &Simulated{delay: delay, tools: make(map[string]Descriptor)}
}

// RegisterTool 只记录描述，执行时不会调用 Execute
func (s *Simulated) RegisterTool(_ context.Context, d Descriptor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tools[d.Name] = d
	return nil
}

// ExecuteTool 等待固定延迟后返回固定结果
func (s *Simulated) ExecuteTool(ctx context.Context, name string, params Params) (Result, error) {
	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	switch name {
	case AnalyzeFinancials:
		return Result{"score": 72.0, "market_cap": 12e9, "source": model.SourceSimulated}, nil
	case CheckFounders:
		return Result{"score": 78.0, "reliability": 78.0, "past_exits": 2.0, "source": model.SourceSimulated}, nil
	case GetSocialSentiment:
		return Result{"score": 69.0, "sentiment": "BULLISH", "intensity": 69.0, "source": model.SourceSimulated}, nil
	default:
		echoed := make(Params, len(params))
		for k, v := range params {
			echoed[k] = v
		}
		return Result{"ok": true, "params": echoed, "source": model.SourceSimulated}, nil
	}
}

func (s *Simulated) Simulated() bool { return true }

// Tools 按名称排序返回已注册的工具
func (s *Simulated) Tools() []Descriptor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Descriptor, 0, len(s.tools))
	for _, d := range s.tools {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
