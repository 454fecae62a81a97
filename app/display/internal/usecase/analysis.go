package usecase

import (
	"context"
	"strings"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/invest_radar/app/display/internal/repo"
	"github.com/iWorld-y/invest_radar/app/invest_radar/pkg/endpoint"
	"github.com/iWorld-y/invest_radar/app/invest_radar/pkg/model"
	"github.com/iWorld-y/invest_radar/app/invest_radar/pkg/tool"
)

const (
	ReasonEntityRequired = "ENTITY_REQUIRED"
	ReasonInvalidMode    = "INVALID_MODE"
)

// AnalysisUseCase 分析业务逻辑
type AnalysisUseCase struct {
	repo repo.AnalysisRepo
	log  *log.Helper
}

// NewAnalysisUseCase 创建分析业务逻辑实例
func NewAnalysisUseCase(repo repo.AnalysisRepo, logger log.Logger) *AnalysisUseCase {
	return &AnalysisUseCase{repo: repo, log: log.NewHelper(logger)}
}

// Analyze 执行一次分析
func (uc *AnalysisUseCase) Analyze(ctx context.Context, entity string) (*model.AnalysisResult, error) {
	if strings.TrimSpace(entity) == "" {
		return nil, errors.BadRequest(ReasonEntityRequired, "entity is required")
	}
	res, err := uc.repo.Analyze(ctx, entity)
	if err != nil {
		uc.log.WithContext(ctx).Errorf("analyze %q failed: %v", entity, err)
		return nil, err
	}
	return res, nil
}

// Report 组合列表命中时直接返回，否则分析
func (uc *AnalysisUseCase) Report(ctx context.Context, entity string) (*model.AnalysisResult, error) {
	if strings.TrimSpace(entity) == "" {
		return nil, errors.BadRequest(ReasonEntityRequired, "entity is required")
	}
	return uc.repo.Report(ctx, entity)
}

// Mode 当前执行模式
func (uc *AnalysisUseCase) Mode(ctx context.Context) model.ExecutionMode {
	return uc.repo.GetMode(ctx)
}

// SetMode 只接受 backend 和 simulation
func (uc *AnalysisUseCase) SetMode(ctx context.Context, mode string) (model.ExecutionMode, error) {
	m := model.ExecutionMode(strings.TrimSpace(mode))
	if !m.Valid() {
		return "", errors.BadRequest(ReasonInvalidMode, "mode must be backend or simulation")
	}
	if err := uc.repo.SetMode(ctx, m); err != nil {
		return "", err
	}
	uc.log.WithContext(ctx).Infof("execution mode set to %s", m)
	return m, nil
}

// Endpoint 解析后的后端地址
func (uc *AnalysisUseCase) Endpoint(ctx context.Context) (endpoint.Resolution, error) {
	res, err := uc.repo.GetEndpoint(ctx)
	if err != nil {
		return endpoint.Resolution{}, err
	}
	if res.Reset {
		uc.log.WithContext(ctx).Warn("untrusted loopback endpoint was reset")
	}
	return res, nil
}

// SetEndpoint 保存后端地址后返回重新解析的结果
func (uc *AnalysisUseCase) SetEndpoint(ctx context.Context, base string) (endpoint.Resolution, error) {
	if err := uc.repo.SetEndpoint(ctx, base); err != nil {
		return endpoint.Resolution{}, err
	}
	return uc.Endpoint(ctx)
}

// Tools 已注册的工具
func (uc *AnalysisUseCase) Tools(ctx context.Context) []tool.Descriptor {
	return uc.repo.ListTools(ctx)
}
