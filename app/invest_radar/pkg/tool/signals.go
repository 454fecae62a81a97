package tool

import (
	"context"
	"fmt"
	"strings"

	"github.com/iWorld-y/invest_radar/app/invest_radar/pkg/model"
)

// ModeReader 读取当前执行模式
type ModeReader interface {
	Get(ctx context.Context) model.ExecutionMode
}

// Analyzer 后端组合分析
type Analyzer interface {
	Analyze(ctx context.Context, entity string, demo bool) (*model.AnalysisResult, error)
}

var entitySchema = Schema{
	Type:       "object",
	Properties: map[string]Property{"entity": {Type: "string"}},
	Required:   []string{"entity"},
}

type signalTool struct {
	name        string
	description string
	// simulation 模式下工具层自己的固定结果，与 Simulated 协议的结果相互独立
	canned Result
	pick   func(*model.AnalysisResult) model.SignalReport
}

var signalTools = []signalTool{
	{
		name:        AnalyzeFinancials,
		description: "Analyze financial profile for an entity",
		canned:      Result{"score": 74.0, "market_cap": 9.3e9, "source": model.SourceToolSim},
		pick:        func(r *model.AnalysisResult) model.SignalReport { return r.Financials },
	},
	{
		name:        CheckFounders,
		description: "Check founder reliability and red flags",
		canned:      Result{"reliability": 82.0, "score": 82.0, "source": model.SourceToolSim},
		pick:        func(r *model.AnalysisResult) model.SignalReport { return r.Founders },
	},
	{
		name:        GetSocialSentiment,
		description: "Get social sentiment from Reddit/Twitter proxies",
		canned:      Result{"sentiment": "NEUTRAL", "score": 61.0, "source": model.SourceToolSim},
		pick:        func(r *model.AnalysisResult) model.SignalReport { return r.Social },
	},
}

func (st signalTool) descriptor(modes ModeReader, analyzer Analyzer) Descriptor {
	return Descriptor{
		Name:        st.name,
		Description: st.description,
		Parameters:  entitySchema,
		Execute: func(ctx context.Context, params Params) (Result, error) {
			if modes.Get(ctx) == model.ModeSimulation {
				out := make(Result, len(st.canned))
				for k, v := range st.canned {
					out[k] = v
				}
				return out, nil
			}

			entity, _ := params["entity"].(string)
			entity = strings.TrimSpace(entity)
			if entity == "" {
				return nil, fmt.Errorf("%s: entity is required", st.name)
			}
			res, err := analyzer.Analyze(ctx, entity, false)
			if err != nil {
				return nil, err
			}
			out := Result{}
			for k, v := range st.pick(res) {
				out[k] = v
			}
			return out, nil
		},
	}
}

// SignalDescriptors 三个信号工具的描述
func SignalDescriptors(modes ModeReader, analyzer Analyzer) []Descriptor {
	out := make([]Descriptor, 0, len(signalTools))
	for _, st := range signalTools {
		out = append(out, st.descriptor(modes, analyzer))
	}
	return out
}

// RegisterSignalTools 注册三个信号工具，遇到第一个错误即返回
func RegisterSignalTools(ctx context.Context, p Protocol, modes ModeReader, analyzer Analyzer) error {
	for _, d := range SignalDescriptors(modes, analyzer) {
		if err := p.RegisterTool(ctx, d); err != nil {
			return fmt.Errorf("register %s: %w", d.Name, err)
		}
	}
	return nil
}
