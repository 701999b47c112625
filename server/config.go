package server

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config 进程配置：仅监听端口与日志路径走环境变量
// 游戏规则常量（抓捕半径/冷却/Tick 频率/边界/出生散布）为编译期常量，不开放热改
type Config struct {
	Port    string `env:"PORT" envDefault:"8080"`
	LogFile string `env:"LOG_FILE" envDefault:"app.log"`
}

// LoadConfig 从环境变量解析配置
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// ListenAddr 组装 HTTP 监听地址
func (c Config) ListenAddr() string {
	return ":" + c.Port
}
