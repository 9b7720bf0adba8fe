package commands

import (
	"fmt"
	"time"

	"spending/middleware"

	"github.com/spf13/cobra"
)

func newTokenCommand(opts *rootOptions) *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "签发管理令牌（用于清库、导入、退出接口）",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			middleware.InitJWT(cfg)
			if ttl <= 0 {
				ttl = cfg.Admin.TokenTTL
			}
			token, err := middleware.GenerateToken(subject, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "cli", "令牌主体")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "有效期，默认取 admin.token_ttl_hours")
	return cmd
}
