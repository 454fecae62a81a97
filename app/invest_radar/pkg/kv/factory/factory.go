package factory

import (
	"context"
	"fmt"

	"github.com/iWorld-y/invest_radar/app/invest_radar/pkg/badgerkv"
	"github.com/iWorld-y/invest_radar/app/invest_radar/pkg/config"
	"github.com/iWorld-y/invest_radar/app/invest_radar/pkg/kv"
	"github.com/iWorld-y/invest_radar/app/invest_radar/pkg/rediskv"
)

// NewStore 根据配置创建 KV 存储，返回的 cleanup 用于释放连接
func NewStore(ctx context.Context, cfg *config.Config) (kv.Store, func(), error) {
	switch cfg.Store.Provider {
	case "memory":
		return kv.NewMemory(), func() {}, nil

	case "", "badger":
		s, err := badgerkv.Open(cfg.Store.Badger.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil

	case "redis":
		rc := cfg.Store.Redis
		if rc.Addr == "" {
			return nil, nil, fmt.Errorf("redis addr is missing")
		}
		s, err := rediskv.Dial(ctx, rc.Addr, rc.Password, rc.DB, rc.Prefix)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown store provider: %s", cfg.Store.Provider)
	}
}
