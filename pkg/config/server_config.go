package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// 服务端环境变量
const (
	EnvServerAddr = "TRASH_ADDR"
	EnvServerDB   = "TRASH_DB"
	EnvTuning     = "TRASH_TUNING"
)

// ServerConfig 服务端配置
type ServerConfig struct {
	Addr       string // 监听地址
	DBPath     string // 会话历史数据库，空表示不记录
	TuningPath string // 数值配置文件，空表示使用内嵌配置
}

// DefaultServerConfig 返回默认服务端配置
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:   ":8080",
		DBPath: "data/sessions.db",
	}
}

// LoadServerConfig 加载 envFile（不存在时跳过）后从环境变量读取配置
// 已存在的环境变量优先于文件中的值
func LoadServerConfig(envFile string) (ServerConfig, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return ServerConfig{}, fmt.Errorf("failed to load %s: %w", envFile, err)
			}
		} else {
			log.Printf("[Config] 已加载环境变量文件 %s", envFile)
		}
	}

	cfg := DefaultServerConfig()
	if v, ok := os.LookupEnv(EnvServerAddr); ok && v != "" {
		cfg.Addr = v
	}
	if v, ok := os.LookupEnv(EnvServerDB); ok {
		cfg.DBPath = v
	}
	if v, ok := os.LookupEnv(EnvTuning); ok {
		cfg.TuningPath = v
	}
	return cfg, nil
}
