package data

import (
	"github.com/iWorld-y/invest_radar/app/display/internal/conf"
	"github.com/iWorld-y/invest_radar/app/invest_radar/pkg/config"
)

// NewRadarConfig 将 internal/conf.Radar 转换为 pkg/config.Config，并补齐默认值
func NewRadarConfig(c *conf.Radar) (*config.Config, error) {
	cfg := &config.Config{}
	if c != nil {
		if c.Page != nil {
			cfg.Page.URL = c.Page.Url
		}
		if c.Store != nil {
			cfg.Store.Provider = c.Store.Provider
			if c.Store.Badger != nil {
				cfg.Store.Badger.Path = c.Store.Badger.Path
			}
			if c.Store.Redis != nil {
				cfg.Store.Redis = config.RedisConfig{
					Addr:     c.Store.Redis.Addr,
					Password: c.Store.Redis.Password,
					DB:       int(c.Store.Redis.Db),
					Prefix:   c.Store.Redis.Prefix,
				}
			}
		}
		if c.Backend != nil {
			cfg.Backend.Timeout = int(c.Backend.Timeout)
		}
		if c.Tools != nil {
			cfg.Tools.Parallel = c.Tools.Parallel
			if c.Tools.SimDelayMs != nil {
				d := int(*c.Tools.SimDelayMs)
				cfg.Tools.SimDelayMS = &d
			}
		}
		if c.Portfolio != nil {
			cfg.Portfolio.Source = c.Portfolio.Source
		}
		if c.Log != nil {
			cfg.Log = config.LogConfig{Level: c.Log.Level, File: c.Log.File}
		}
		if c.Concurrency != nil {
			cfg.Concurrency = config.ConcurrencyConfig{
				QPS: int(c.Concurrency.Qps),
				RPM: int(c.Concurrency.Rpm),
			}
		}
		if c.Db != nil {
			cfg.DB = config.DBConfig{
				Host:     c.Db.Host,
				Port:     int(c.Db.Port),
				User:     c.Db.User,
				Password: c.Db.Password,
				Name:     c.Db.Name,
			}
		}
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
