package data

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/invest_radar/app/display/internal/conf"
	"github.com/iWorld-y/invest_radar/app/invest_radar/pkg/engine"
	radarLogger "github.com/iWorld-y/invest_radar/app/invest_radar/pkg/logger"
)

type Data struct {
	rt *engine.Runtime
}

// NewData 初始化 invest_radar 运行时
func NewData(c *conf.Radar, logger log.Logger) (*Data, func(), error) {
	helper := log.NewHelper(logger)

	cfg, err := NewRadarConfig(c)
	if err != nil {
		return nil, nil, err
	}

	if err := radarLogger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		helper.Errorf("Failed to init invest_radar logger: %v", err)
		_ = radarLogger.InitLogger("info", "") // 降级处理
	}

	rt, closeRuntime, err := engine.Setup(context.Background(), cfg, nil)
	if err != nil {
		helper.Errorf("Failed to init engine: %v", err)
		return nil, nil, err
	}

	cleanup := func() {
		helper.Info("closing the data resources")
		closeRuntime()
	}
	return &Data{rt: rt}, cleanup, nil
}

// NewDataFromRuntime 直接使用已组装的运行时
func NewDataFromRuntime(rt *engine.Runtime) *Data {
	return &Data{rt: rt}
}
