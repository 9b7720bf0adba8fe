package commands

import (
	"fmt"
	"strings"

	"spending/service"

	"github.com/spf13/cobra"
)

func newDuplicateCommand(opts *rootOptions) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "duplicate <year> <month>",
		Short: "把某月的消费或还款复制到今天",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := service.ParsePeriod(args[0], args[1])
			if err != nil {
				return err
			}

			a, err := opts.bootstrap(true)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.svc.Duplicator.DuplicatePeriod(cmd.Context(), p, service.DuplicateKind(kind))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "duplicated %s %s to %s: %d succeeded, %d failed\n",
				res.Kind, res.Source, res.Date, res.SuccessCount, res.FailCount)
			if len(res.Failures) > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "  "+strings.Join(res.Failures, "\n  "))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", string(service.DuplicateExpenses), "expense 或 card_payment")
	return cmd
}
