package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config 应用总配置，按环境加载
type Config struct {
	Server ServerConfig `yaml:"server"`
	Plugin PluginConfig `yaml:"plugin"`
	Poke   PokeConfig   `yaml:"poke"`
	OneBot OneBotConfig `yaml:"onebot"`
	Person PersonConfig `yaml:"person"`
	Store  StoreConfig  `yaml:"store"`
	Log    LogConfig    `yaml:"log"`
}

type ServerConfig struct {
	Port int    `yaml:"port"`
	Mode string `yaml:"mode"` // debug, release
}

// PluginConfig 插件静态描述，由宿主读取
type PluginConfig struct {
	Name        string `yaml:"name"`
	Enabled     bool   `yaml:"enabled"`
	Version     string `yaml:"version"`
	Description string `yaml:"description"`
}

// PokeConfig 戳一戳动作配置
type PokeConfig struct {
	// Debug 打开后输出解析参数日志，失败时向会话发送诊断文本
	Debug bool `yaml:"debug"`
	// DefaultGroupID 实例级群号，目标解析群号兜底用（可空）
	DefaultGroupID string `yaml:"default_group_id"`
	// ActivationKeywords 宿主侧的激活关键字提示
	ActivationKeywords []string `yaml:"activation_keywords"`
}

// OneBotConfig OneBot（NapCat / go-cqhttp 等）HTTP API 配置
type OneBotConfig struct {
	BaseURL     string `yaml:"base_url"`
	AccessToken string `yaml:"access_token"`
	Enabled     bool   `yaml:"enabled"`
}

// PersonConfig 宿主人员信息服务配置
type PersonConfig struct {
	BaseURL string `yaml:"base_url"`
	Token   string `yaml:"token"`
}

// StoreConfig 动作历史存储配置
type StoreConfig struct {
	// Path SQLite 文件路径
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Load 根据环境变量 APP_ENV 加载对应配置文件
// 支持: local, dev, prod，默认 local
func Load() (*Config, error) {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	path := fmt.Sprintf("config/%s.yaml", env)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// 允许环境变量覆盖敏感配置
	overrideFromEnv(&cfg)
	return &cfg, nil
}

func overrideFromEnv(c *Config) {
	if v := os.Getenv("ONEBOT_BASE_URL"); v != "" {
		c.OneBot.BaseURL = v
	}
	if v := os.Getenv("ONEBOT_ACCESS_TOKEN"); v != "" {
		c.OneBot.AccessToken = v
	}
	if v := os.Getenv("PERSON_API_BASE_URL"); v != "" {
		c.Person.BaseURL = v
	}
	if v := os.Getenv("PERSON_API_TOKEN"); v != "" {
		c.Person.Token = v
	}
	if v := os.Getenv("ACTION_LOG_PATH"); v != "" {
		c.Store.Path = v
	}
}
