package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"spending/config"
	"spending/middleware"
	"spending/router"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "启动 HTTP 服务",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.bootstrap(true)
			if err != nil {
				return err
			}
			defer a.Close()

			// 命令行参数覆盖端口配置
			if port != "" {
				if !strings.HasPrefix(port, ":") {
					port = ":" + port
				}
				a.cfg.Server.Port = port
			}
			config.PrintConfig()
			middleware.InitJWT(a.cfg)

			return runServer(cmd.Context(), a)
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "监听端口，如: 8080 或 :8080")
	return cmd
}

// runServer 运行直到收到信号或 /api/exit 请求，然后优雅关闭
func runServer(ctx context.Context, a *app) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	exit := make(chan struct{})
	var once sync.Once
	shutdown := func() { once.Do(func() { close(exit) }) }

	srv := &http.Server{
		Addr:              a.cfg.Server.Port,
		Handler:           router.SetupRouter(a.cfg, a.svc, shutdown),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("服务已启动",
			"addr", a.cfg.Server.Port,
			"swagger", fmt.Sprintf("http://localhost%s/swagger/index.html", a.cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("服务器启动失败: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		select {
		case <-gctx.Done():
			slog.Info("收到停止信号，正在关闭")
		case <-exit:
			slog.Info("收到退出请求，正在关闭")
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("优雅关闭失败: %w", err)
		}
		slog.Info("服务已停止")
		return nil
	})
	return g.Wait()
}
