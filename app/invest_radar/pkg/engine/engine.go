package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-kratos/kratos/v2/errors"
	"golang.org/x/sync/errgroup"

	"github.com/iWorld-y/invest_radar/app/invest_radar/pkg/config"
	"github.com/iWorld-y/invest_radar/app/invest_radar/pkg/logger"
	"github.com/iWorld-y/invest_radar/app/invest_radar/pkg/model"
	"github.com/iWorld-y/invest_radar/app/invest_radar/pkg/score"
	"github.com/iWorld-y/invest_radar/app/invest_radar/pkg/tool"
)

// ReasonEntityRequired 实体名为空
const ReasonEntityRequired = "ENTITY_REQUIRED"

// Backend 后端组合分析能力
type Backend interface {
	DemoMode(ctx context.Context) bool
	Analyze(ctx context.Context, entity string, demo bool) (*model.AnalysisResult, error)
}

// Journal 本地结果日志
type Journal interface {
	SaveResult(ctx context.Context, res *model.AnalysisResult) error
}

// PortfolioSource 已有分析结果列表
type PortfolioSource interface {
	Portfolio(ctx context.Context) ([]model.AnalysisResult, error)
}

// Deps 引擎依赖，Journal 与 Portfolio 可以为空
type Deps struct {
	Modes     tool.ModeReader
	Tools     tool.Protocol
	Backend   Backend
	Journal   Journal
	Portfolio PortfolioSource
}

// Engine 信号执行引擎
type Engine struct {
	modes     tool.ModeReader
	tools     tool.Protocol
	backend   Backend
	journal   Journal
	portfolio PortfolioSource
	parallel  bool
	now       func() time.Time
}

// NewEngine 创建引擎实例
func NewEngine(cfg *config.Config, deps Deps) *Engine {
	return &Engine{
		modes:     deps.Modes,
		tools:     deps.Tools,
		backend:   deps.Backend,
		journal:   deps.Journal,
		portfolio: deps.Portfolio,
		parallel:  cfg.Tools.Parallel,
		now:       time.Now,
	}
}

// RunOptions 运行选项
type RunOptions struct {
	ProgressCallback func(status string, progress int)
}

func (o RunOptions) report(status string, progress int) {
	if o.ProgressCallback != nil {
		o.ProgressCallback(status, progress)
	}
}

// 信号固定顺序：财务、创始人、舆情
var signalOrder = []struct {
	tool  string
	label string
}{
	{tool.AnalyzeFinancials, "financials"},
	{tool.CheckFounders, "founders"},
	{tool.GetSocialSentiment, "social"},
}

// RegisterTools 注册三个信号工具，失败只记录警告
func (e *Engine) RegisterTools(ctx context.Context) {
	if err := tool.RegisterSignalTools(ctx, e.tools, e.modes, e.backend); err != nil {
		logger.Log.Warnf("工具注册失败，继续运行: %v", err)
		return
	}
	logger.Log.Debugf("已注册 %d 个信号工具 (simulated=%v)", len(signalOrder), e.tools.Simulated())
}

// RunAnalysis 按当前模式执行一次分析
func (e *Engine) RunAnalysis(ctx context.Context, entity string, opts RunOptions) (*model.AnalysisResult, error) {
	entity = strings.TrimSpace(entity)
	if entity == "" {
		return nil, errors.BadRequest(ReasonEntityRequired, "entity is required")
	}

	// 模式只在开始时读取一次
	mode := e.modes.Get(ctx)
	logger.Log.Infof("开始分析 [%s]，模式: %s", entity, mode)
	opts.report("starting", 0)

	var (
		res *model.AnalysisResult
		err error
	)
	if mode == model.ModeSimulation {
		res, err = e.runSimulation(ctx, entity, opts)
	} else {
		res, err = e.runBackend(ctx, entity, opts)
	}
	if err != nil {
		logger.Log.Errorf("分析失败 [%s]: %v", entity, err)
		return nil, err
	}

	opts.report("completed", 100)
	logger.Log.Infof("分析完成 [%s]: %d %s", entity, res.Score, res.Verdict.Label())
	return res, nil
}

func (e *Engine) runBackend(ctx context.Context, entity string, opts RunOptions) (*model.AnalysisResult, error) {
	demo := e.backend.DemoMode(ctx)
	res, err := e.backend.Analyze(ctx, entity, demo)
	if err != nil {
		return nil, err
	}
	// 组合调用完成后再逐项报告进度
	for i, s := range signalOrder {
		opts.report(s.label, (i+1)*30)
	}
	return res, nil
}

func (e *Engine) runSimulation(ctx context.Context, entity string, opts RunOptions) (*model.AnalysisResult, error) {
	reports := make([]model.SignalReport, len(signalOrder))

	var mu sync.Mutex
	done := 0
	call := func(ctx context.Context, i int) error {
		s := signalOrder[i]
		out, err := e.tools.ExecuteTool(ctx, s.tool, tool.Params{"entity": entity})
		if err != nil {
			return fmt.Errorf("%s: %w", s.tool, err)
		}
		reports[i] = model.NewSignalReport(out)

		mu.Lock()
		done++
		opts.report(s.label, done*30)
		mu.Unlock()
		return nil
	}

	if e.parallel {
		g, gctx := errgroup.WithContext(ctx)
		for i := range signalOrder {
			i := i
			g.Go(func() error { return call(gctx, i) })
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i := range signalOrder {
			if err := call(ctx, i); err != nil {
				return nil, err
			}
		}
	}

	outcome := score.Aggregate(reports[0], reports[1], reports[2])
	res := &model.AnalysisResult{
		Entity:     entity,
		Score:      outcome.Score,
		Verdict:    outcome.Verdict,
		Reason:     score.ReasonSimulation,
		Financials: reports[0],
		Founders:   reports[1],
		Social:     reports[2],
		Mode:       string(model.ModeSimulation),
		Timestamp:  e.now().UTC().Format(time.RFC3339),
	}

	if e.journal != nil {
		if err := e.journal.SaveResult(ctx, res.Clone()); err != nil {
			logger.Log.Errorf("保存分析结果失败 [%s]: %v", entity, err)
		}
	}
	return res, nil
}

// FindOrAnalyze 优先返回列表中第一个同名（忽略大小写）的结果副本，否则执行分析
func (e *Engine) FindOrAnalyze(ctx context.Context, entity string, items []model.AnalysisResult, opts RunOptions) (*model.AnalysisResult, error) {
	if hit := Lookup(entity, items); hit != nil {
		logger.Log.Debugf("命中已有结果 [%s]", hit.Entity)
		return hit, nil
	}
	return e.RunAnalysis(ctx, entity, opts)
}

// Lookup 按实体名忽略大小写精确查找，未命中返回 nil
func Lookup(entity string, items []model.AnalysisResult) *model.AnalysisResult {
	key := strings.TrimSpace(entity)
	if key == "" {
		return nil
	}
	for _, it := range items {
		if strings.EqualFold(it.Entity, key) {
			return it.Clone()
		}
	}
	return nil
}

// Report 先查组合列表，没有再分析；列表加载失败按空列表处理
func (e *Engine) Report(ctx context.Context, entity string, opts RunOptions) (*model.AnalysisResult, error) {
	var items []model.AnalysisResult
	if e.portfolio != nil {
		var err error
		items, err = e.portfolio.Portfolio(ctx)
		if err != nil {
			logger.Log.Warnf("加载组合列表失败，直接分析: %v", err)
			items = nil
		}
	}
	return e.FindOrAnalyze(ctx, entity, items, opts)
}
