package engine

import (
	"context"
	"fmt"

	"github.com/iWorld-y/invest_radar/app/invest_radar/pkg/backend"
	"github.com/iWorld-y/invest_radar/app/invest_radar/pkg/config"
	"github.com/iWorld-y/invest_radar/app/invest_radar/pkg/endpoint"
	"github.com/iWorld-y/invest_radar/app/invest_radar/pkg/fetch"
	"github.com/iWorld-y/invest_radar/app/invest_radar/pkg/kv/factory"
	"github.com/iWorld-y/invest_radar/app/invest_radar/pkg/logger"
	"github.com/iWorld-y/invest_radar/app/invest_radar/pkg/mode"
	"github.com/iWorld-y/invest_radar/app/invest_radar/pkg/storage"
	"github.com/iWorld-y/invest_radar/app/invest_radar/pkg/tool"
)

// Runtime 按配置组装好的全部组件
type Runtime struct {
	Engine     *Engine
	Endpoint   *endpoint.Resolver
	Modes      *mode.Selector
	Backend    *backend.Client
	Dispatcher *tool.Dispatcher
	Storage    *storage.Storage
}

// Setup 根据配置组装运行时，probe 为 nil 时工具协议始终走模拟实现
func Setup(ctx context.Context, cfg *config.Config, probe tool.HostProbe) (*Runtime, func(), error) {
	page, err := endpoint.ParsePage(cfg.Page.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("解析页面地址失败: %w", err)
	}

	store, closeStore, err := factory.NewStore(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("KV 存储初始化失败: %w", err)
	}
	cleanup := closeStore

	resolver := endpoint.NewResolver(store, page)
	modes := mode.NewSelector(store)

	limiter := fetch.NewLimiter(cfg.Concurrency.QPS, cfg.Concurrency.RPM)
	fc := fetch.NewClient(resolver, page.Origin(), cfg.Backend.Timeout, limiter)
	be := backend.NewClient(fc)

	sim := tool.NewSimulated(cfg.Tools.SimDelay())
	dispatcher := tool.NewDispatcher(probe, sim)

	rt := &Runtime{
		Endpoint:   resolver,
		Modes:      modes,
		Backend:    be,
		Dispatcher: dispatcher,
	}
	deps := Deps{Modes: modes, Tools: dispatcher, Backend: be, Portfolio: be}

	// 数据库可选
	if cfg.DB.Host != "" {
		st, err := storage.NewStorage(cfg.DB)
		if err != nil {
			logger.Log.Warnf("数据库初始化失败，跳过结果日志: %v", err)
		} else {
			rt.Storage = st
			deps.Journal = st
			cleanup = func() {
				_ = st.Close()
				closeStore()
			}
		}
	}
	if cfg.Portfolio.Source == "local" {
		if rt.Storage != nil {
			deps.Portfolio = rt.Storage
		} else {
			logger.Log.Warnf("portfolio.source=local 但数据库不可用，改用后端组合列表")
		}
	}

	rt.Engine = NewEngine(cfg, deps)
	rt.Engine.RegisterTools(ctx)
	return rt, cleanup, nil
}
