package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config 项目配置结构体
type Config struct {
	Page        PageConfig        `yaml:"page"`
	Store       StoreConfig       `yaml:"store"`
	Backend     BackendConfig     `yaml:"backend"`
	Tools       ToolsConfig       `yaml:"tools"`
	Portfolio   PortfolioConfig   `yaml:"portfolio"`
	Log         LogConfig         `yaml:"log"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	DB          DBConfig          `yaml:"db"`
}

// PageConfig 执行上下文（页面地址），决定默认后端地址和信任边界
type PageConfig struct {
	// URL 例如 file:///opt/invest/index.html 或 https://invest.example.com/
	URL string `yaml:"url"`
}

// StoreConfig 持久化 KV 存储配置
type StoreConfig struct {
	Provider string       `yaml:"provider" validate:"omitempty,oneof=memory badger redis"`
	Badger   BadgerConfig `yaml:"badger"`
	Redis    RedisConfig  `yaml:"redis"`
}

// BadgerConfig Badger 配置
type BadgerConfig struct {
	Path string `yaml:"path"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db" validate:"gte=0"`
	Prefix   string `yaml:"prefix"`
}

// BackendConfig 后端 HTTP 调用配置
type BackendConfig struct {
	Timeout int `yaml:"timeout" validate:"gte=0"` // 秒
}

// ToolsConfig 工具协议配置
type ToolsConfig struct {
	// SimDelayMS 未设置时为 DefaultSimDelayMS，0 表示不等待
	SimDelayMS *int `yaml:"sim_delay_ms" validate:"omitempty,gte=0"`
	Parallel   bool `yaml:"parallel"`
}

// DefaultSimDelayMS 模拟工具的默认延迟
const DefaultSimDelayMS = 350

// SimDelay 模拟工具延迟
func (t ToolsConfig) SimDelay() time.Duration {
	if t.SimDelayMS == nil {
		return DefaultSimDelayMS * time.Millisecond
	}
	return time.Duration(*t.SimDelayMS) * time.Millisecond
}

// PortfolioConfig 组合列表来源
type PortfolioConfig struct {
	Source string `yaml:"source" validate:"omitempty,oneof=remote local"`
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ConcurrencyConfig 并发控制配置
type ConcurrencyConfig struct {
	QPS int `yaml:"qps" validate:"gte=0"`
	RPM int `yaml:"rpm" validate:"gte=0"`
}

// DBConfig 数据库相关配置
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port" validate:"gte=0,lte=65535"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

var validate = validator.New()

// LoadConfig 从指定路径加载配置
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyDefaults 填充未设置的字段
func (c *Config) ApplyDefaults() {
	if c.Store.Provider == "" {
		c.Store.Provider = "badger"
	}
	if c.Store.Badger.Path == "" {
		c.Store.Badger.Path = "data/state"
	}
	if c.Store.Redis.Prefix == "" {
		c.Store.Redis.Prefix = "invest_radar:"
	}
	if c.Backend.Timeout == 0 {
		c.Backend.Timeout = 30
	}
	if c.Tools.SimDelayMS == nil {
		d := DefaultSimDelayMS
		c.Tools.SimDelayMS = &d
	}
	if c.Portfolio.Source == "" {
		c.Portfolio.Source = "remote"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate 校验配置
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Store.Provider == "redis" && c.Store.Redis.Addr == "" {
		return fmt.Errorf("invalid config: store.redis.addr is required for redis provider")
	}
	return nil
}
