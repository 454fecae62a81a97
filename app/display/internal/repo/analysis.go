package repo

import (
	"context"

	"github.com/iWorld-y/invest_radar/app/invest_radar/pkg/endpoint"
	"github.com/iWorld-y/invest_radar/app/invest_radar/pkg/model"
	"github.com/iWorld-y/invest_radar/app/invest_radar/pkg/tool"
)

// AnalysisRepo 分析能力仓库接口
type AnalysisRepo interface {
	// Analyze 按当前模式执行分析
	Analyze(ctx context.Context, entity string) (*model.AnalysisResult, error)
	// Report 优先返回组合列表中的已有结果
	Report(ctx context.Context, entity string) (*model.AnalysisResult, error)
	GetMode(ctx context.Context) model.ExecutionMode
	SetMode(ctx context.Context, m model.ExecutionMode) error
	GetEndpoint(ctx context.Context) (endpoint.Resolution, error)
	SetEndpoint(ctx context.Context, base string) error
	// ListTools 已注册的工具描述
	ListTools(ctx context.Context) []tool.Descriptor
}
