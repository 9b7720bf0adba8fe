package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"spending/config"
	"spending/database"
	"spending/events"
	"spending/service"

	"github.com/spf13/cobra"
)

// Version 版本号
var Version = "1.0.0"

type rootOptions struct {
	configPath string
}

// app 一次命令执行所需的依赖
type app struct {
	cfg       *config.Config
	svc       *service.Services
	publisher events.Publisher
}

func (a *app) Close() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			slog.Warn("关闭事件发布器失败", "error", err)
		}
	}
	if err := database.Close(); err != nil {
		slog.Warn("关闭数据库失败", "error", err)
	}
}

// NewRootCommand 创建根命令并注册全部子命令
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:     "spending",
		Short:   "个人/家庭消费记账",
		Version: Version,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "外部配置文件路径（可选）")

	rootCmd.AddCommand(
		newServeCommand(opts),
		newReportCommand(opts),
		newBackupCommand(opts),
		newMergeCommand(opts),
		newDuplicateCommand(opts),
		newTokenCommand(opts),
	)
	return rootCmd
}

// Execute 命令行入口
func Execute() {
	if err := NewRootCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(o.configPath)
	if err != nil {
		return nil, err
	}
	setupLogger(cfg.Server.Mode)
	return cfg, nil
}

// bootstrap 加载配置、打开数据库并组装服务；withEvents 为 false 时不连接消息队列
func (o *rootOptions) bootstrap(withEvents bool) (*app, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}

	if err := database.Init(cfg); err != nil {
		return nil, fmt.Errorf("数据库初始化失败: %w", err)
	}

	var publisher events.Publisher = events.NopPublisher{}
	if withEvents {
		if publisher, err = events.NewPublisher(&cfg.Events); err != nil {
			// 连不上消息队列时降级为不发布
			slog.Warn("事件发布器不可用，继续运行", "error", err)
			publisher = events.NopPublisher{}
		}
	}

	return &app{cfg: cfg, svc: service.New(database.GetDB(), cfg, publisher), publisher: publisher}, nil
}

func setupLogger(mode string) {
	var handler slog.Handler
	if mode == "release" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	slog.SetDefault(slog.New(handler))
}
