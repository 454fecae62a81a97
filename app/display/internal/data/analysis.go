package data

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/invest_radar/app/display/internal/repo"
	"github.com/iWorld-y/invest_radar/app/invest_radar/pkg/endpoint"
	"github.com/iWorld-y/invest_radar/app/invest_radar/pkg/engine"
	"github.com/iWorld-y/invest_radar/app/invest_radar/pkg/model"
	"github.com/iWorld-y/invest_radar/app/invest_radar/pkg/tool"
)

type analysisRepo struct {
	data *Data
	log  *log.Helper
}

func NewAnalysisRepo(data *Data, logger log.Logger) repo.AnalysisRepo {
	return &analysisRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func (r *analysisRepo) progress(entity string) engine.RunOptions {
	return engine.RunOptions{
		ProgressCallback: func(status string, progress int) {
			r.log.Debugf("analysis %s: %s (%d%%)", entity, status, progress)
		},
	}
}

func (r *analysisRepo) Analyze(ctx context.Context, entity string) (*model.AnalysisResult, error) {
	return r.data.rt.Engine.RunAnalysis(ctx, entity, r.progress(entity))
}

func (r *analysisRepo) Report(ctx context.Context, entity string) (*model.AnalysisResult, error) {
	return r.data.rt.Engine.Report(ctx, entity, r.progress(entity))
}

func (r *analysisRepo) GetMode(ctx context.Context) model.ExecutionMode {
	return r.data.rt.Modes.Get(ctx)
}

func (r *analysisRepo) SetMode(ctx context.Context, m model.ExecutionMode) error {
	return r.data.rt.Modes.Set(ctx, m)
}

func (r *analysisRepo) GetEndpoint(ctx context.Context) (endpoint.Resolution, error) {
	return r.data.rt.Endpoint.Resolve(ctx)
}

func (r *analysisRepo) SetEndpoint(ctx context.Context, base string) error {
	return r.data.rt.Endpoint.SetEndpoint(ctx, base)
}

func (r *analysisRepo) ListTools(context.Context) []tool.Descriptor {
	return r.data.rt.Dispatcher.Tools()
}
