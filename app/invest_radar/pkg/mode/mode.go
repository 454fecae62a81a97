package mode

import (
	"context"
	"errors"
	"fmt"

	"github.com/iWorld-y/invest_radar/app/invest_radar/pkg/kv"
	"github.com/iWorld-y/invest_radar/app/invest_radar/pkg/logger"
	"github.com/iWorld-y/invest_radar/app/invest_radar/pkg/model"
)

// StorageKey 持久化键名
const StorageKey = "investai_webmcp_mode"

// Selector 执行模式读写
type Selector struct {
	store kv.Store
}

// NewSelector 创建模式选择器
func NewSelector(store kv.Store) *Selector {
	return &Selector{store: store}
}

// Get 未设置、读取失败或无法识别时返回 backend
func (s *Selector) Get(ctx context.Context) model.ExecutionMode {
	v, err := s.store.Get(ctx, StorageKey)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			logger.Log.Warnf("读取执行模式失败，使用 backend: %v", err)
		}
		return model.ModeBackend
	}
	return model.ParseMode(v)
}

// Set 持久化执行模式
func (s *Selector) Set(ctx context.Context, m model.ExecutionMode) error {
	if !m.Valid() {
		return fmt.Errorf("unknown execution mode %q", m)
	}
	return s.store.Set(ctx, StorageKey, string(m))
}
