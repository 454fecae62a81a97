package factory

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/invest_radar/app/invest_radar/pkg/badgerkv"
	"github.com/iWorld-y/invest_radar/app/invest_radar/pkg/config"
	"github.com/iWorld-y/invest_radar/app/invest_radar/pkg/kv"
	"github.com/iWorld-y/invest_radar/app/invest_radar/pkg/rediskv"
)

func TestNewStore(t *testing.T) {
	ctx := context.Background()

	cfg := &config.Config{Store: config.StoreConfig{Provider: "memory"}}
	s, cleanup, err := NewStore(ctx, cfg)
	require.NoError(t, err)
	cleanup()
	assert.IsType(t, &kv.Memory{}, s)

	cfg = &config.Config{Store: config.StoreConfig{
		Provider: "badger",
		Badger:   config.BadgerConfig{Path: filepath.Join(t.TempDir(), "state")},
	}}
	s, cleanup, err = NewStore(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, &badgerkv.Store{}, s)
	cleanup()

	mr := miniredis.RunT(t)
	cfg = &config.Config{Store: config.StoreConfig{
		Provider: "redis",
		Redis:    config.RedisConfig{Addr: mr.Addr()},
	}}
	s, cleanup, err = NewStore(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, &rediskv.Store{}, s)
	cleanup()
}

func TestNewStore_Errors(t *testing.T) {
	ctx := context.Background()

	_, _, err := NewStore(ctx, &config.Config{Store: config.StoreConfig{Provider: "etcd"}})
	assert.Error(t, err)

	_, _, err = NewStore(ctx, &config.Config{Store: config.StoreConfig{Provider: "redis"}})
	assert.Error(t, err)
}
