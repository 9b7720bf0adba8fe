package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultConfigYAML 内置默认配置
//
//go:embed default.yaml
var DefaultConfigYAML []byte

// Config 应用配置
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Admin     AdminConfig     `mapstructure:"admin"`
	Email     EmailConfig     `mapstructure:"email"`
	Events    EventsConfig    `mapstructure:"events"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port                   string        `mapstructure:"port"`
	Mode                   string        `mapstructure:"mode"`
	ShutdownTimeoutSeconds int           `mapstructure:"shutdown_timeout_seconds"`
	ShutdownTimeout        time.Duration `mapstructure:"-"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"`
	Path         string `mapstructure:"path"`
	Host         string `mapstructure:"host"`
	Port         string `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	DBName       string `mapstructure:"dbname"`
	Charset      string `mapstructure:"charset"`
	SSLMode      string `mapstructure:"sslmode"`
	LogLevel     string `mapstructure:"log_level"`
	SeedDefaults bool   `mapstructure:"seed_defaults"`
}

// AdminConfig 管理令牌配置，保护清库、导入、退出等破坏性接口
type AdminConfig struct {
	TokenSecret   string        `mapstructure:"token_secret"`
	TokenTTLHours int           `mapstructure:"token_ttl_hours"`
	TokenTTL      time.Duration `mapstructure:"-"`
}

// EmailConfig 邮件配置
type EmailConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// EventsConfig 账本变更事件（AMQP）
type EventsConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	AMQPURL       string `mapstructure:"amqp_url"`
	Exchange      string `mapstructure:"exchange"`
	RoutingPrefix string `mapstructure:"routing_prefix"`
}

// RateLimitConfig 批量接口限流
type RateLimitConfig struct {
	BulkMax           int           `mapstructure:"bulk_max"`
	BulkWindowSeconds int           `mapstructure:"bulk_window_seconds"`
	BulkWindow        time.Duration `mapstructure:"-"`
}

var (
	// GlobalConfig 全局配置实例
	GlobalConfig *Config
)

// LoadConfig 加载配置
// 优先级: 环境变量 > 外部配置文件 > 嵌入的默认配置
// configPath: 可选的外部配置文件路径
func LoadConfig(configPath string) (*Config, error) {
	// .env 仅用于本地开发，不存在时忽略
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")

	// 1. 首先加载嵌入的默认配置
	if err := v.ReadConfig(bytes.NewReader(DefaultConfigYAML)); err != nil {
		return nil, fmt.Errorf("读取内置配置失败: %w", err)
	}

	// 2. 尝试加载外部配置文件（可选，用于覆盖默认配置）
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.MergeInConfig(); err != nil {
			slog.Warn("无法读取指定配置文件", "path", configPath, "error", err)
		} else {
			slog.Info("已合并外部配置文件", "path", configPath)
		}
	} else {
		externalViper := viper.New()
		externalViper.SetConfigName("config")
		externalViper.SetConfigType("yaml")
		externalViper.AddConfigPath(".")
		externalViper.AddConfigPath("./config")
		externalViper.AddConfigPath("/etc/spending")
		externalViper.AddConfigPath("$HOME/.spending")

		if err := externalViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(externalViper.AllSettings()); err != nil {
				slog.Warn("合并外部配置失败", "error", err)
			} else {
				slog.Info("已合并外部配置文件", "path", externalViper.ConfigFileUsed())
			}
		}
	}

	// 3. 环境变量覆盖，如 SPENDING_DATABASE_DRIVER=mysql
	v.SetEnvPrefix("SPENDING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	cfg.applyDefaults()

	GlobalConfig = &cfg

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.ShutdownTimeoutSeconds <= 0 {
		c.Server.ShutdownTimeoutSeconds = 10
	}
	c.Server.ShutdownTimeout = time.Duration(c.Server.ShutdownTimeoutSeconds) * time.Second

	if c.Admin.TokenTTLHours <= 0 {
		c.Admin.TokenTTLHours = 720
	}
	c.Admin.TokenTTL = time.Duration(c.Admin.TokenTTLHours) * time.Hour

	if c.RateLimit.BulkMax <= 0 {
		c.RateLimit.BulkMax = 10
	}
	if c.RateLimit.BulkWindowSeconds <= 0 {
		c.RateLimit.BulkWindowSeconds = 60
	}
	c.RateLimit.BulkWindow = time.Duration(c.RateLimit.BulkWindowSeconds) * time.Second

	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
}

// GetConfig 获取全局配置
func GetConfig() *Config {
	if GlobalConfig == nil {
		panic("配置未初始化，请先调用 LoadConfig")
	}
	return GlobalConfig
}

// PrintConfig 打印当前配置（隐藏敏感信息）
func PrintConfig() {
	if GlobalConfig == nil {
		return
	}
	db := GlobalConfig.Database
	target := db.Path
	if db.Driver != "sqlite" {
		target = fmt.Sprintf("%s@%s:%s/%s", db.Username, db.Host, db.Port, db.DBName)
	}
	slog.Info("当前配置",
		"port", GlobalConfig.Server.Port,
		"mode", GlobalConfig.Server.Mode,
		"db_driver", db.Driver,
		"db_target", target,
		"admin_token", GlobalConfig.Admin.TokenSecret != "",
		"email", GlobalConfig.Email.Enabled,
		"events", GlobalConfig.Events.Enabled)
}

// SafeErrorMessage release 模式下不向客户端暴露内部错误详情
func SafeErrorMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	if GlobalConfig != nil && GlobalConfig.Server.Mode == "release" {
		return fallback
	}
	return err.Error()
}
