package service

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/invest_radar/app/display/internal/usecase"
	"github.com/iWorld-y/invest_radar/app/invest_radar/pkg/model"
	"github.com/iWorld-y/invest_radar/app/invest_radar/pkg/tool"
)

type AnalyzeReq struct {
	Entity string `json:"entity"`
}

// AnalysisReply 分析结果，附带展示标签
type AnalysisReply struct {
	*model.AnalysisResult
	Label string `json:"label"`
}

type ModeReq struct {
	Mode string `json:"mode"`
}

type ModeReply struct {
	Mode string `json:"mode"`
}

type EndpointReq struct {
	BaseURL string `json:"base_url"`
}

type EndpointReply struct {
	BaseURL string `json:"base_url"`
	Reset   bool   `json:"reset"`
}

type ToolsReq struct{}

type ToolsReply struct {
	Tools []tool.Descriptor `json:"tools"`
}

type DisplayService struct {
	uc  *usecase.AnalysisUseCase
	log *log.Helper
}

func NewDisplayService(uc *usecase.AnalysisUseCase, logger log.Logger) *DisplayService {
	return &DisplayService{
		uc:  uc,
		log: log.NewHelper(logger),
	}
}

func newAnalysisReply(res *model.AnalysisResult) *AnalysisReply {
	return &AnalysisReply{AnalysisResult: res, Label: res.Verdict.Label()}
}

func (s *DisplayService) Analyze(ctx context.Context, req *AnalyzeReq) (*AnalysisReply, error) {
	res, err := s.uc.Analyze(ctx, req.Entity)
	if err != nil {
		return nil, err
	}
	return newAnalysisReply(res), nil
}

func (s *DisplayService) Report(ctx context.Context, req *AnalyzeReq) (*AnalysisReply, error) {
	res, err := s.uc.Report(ctx, req.Entity)
	if err != nil {
		return nil, err
	}
	return newAnalysisReply(res), nil
}

func (s *DisplayService) GetMode(ctx context.Context, _ *ModeReq) (*ModeReply, error) {
	return &ModeReply{Mode: string(s.uc.Mode(ctx))}, nil
}

func (s *DisplayService) SetMode(ctx context.Context, req *ModeReq) (*ModeReply, error) {
	m, err := s.uc.SetMode(ctx, req.Mode)
	if err != nil {
		return nil, err
	}
	return &ModeReply{Mode: string(m)}, nil
}

func (s *DisplayService) GetEndpoint(ctx context.Context, _ *EndpointReq) (*EndpointReply, error) {
	res, err := s.uc.Endpoint(ctx)
	if err != nil {
		return nil, err
	}
	return &EndpointReply{BaseURL: res.BaseURL, Reset: res.Reset}, nil
}

func (s *DisplayService) SetEndpoint(ctx context.Context, req *EndpointReq) (*EndpointReply, error) {
	res, err := s.uc.SetEndpoint(ctx, req.BaseURL)
	if err != nil {
		return nil, err
	}
	return &EndpointReply{BaseURL: res.BaseURL, Reset: res.Reset}, nil
}

func (s *DisplayService) ListTools(ctx context.Context, _ *ToolsReq) (*ToolsReply, error) {
	tools := s.uc.Tools(ctx)
	if tools == nil {
		tools = []tool.Descriptor{}
	}
	return &ToolsReply{Tools: tools}, nil
}
