package commands

import (
	"fmt"

	"spending/service"

	"github.com/spf13/cobra"
)

func newMergeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "merge <file>",
		Short: "合并导入 JSON 备份或 SQLite 数据库文件",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := service.LoadSnapshotFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			a, err := opts.bootstrap(true)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.svc.Importer.MergeSnapshot(cmd.Context(), snap)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(),
				"merged: %d expense types, %d expense names, %d payment methods, %d card payments, %d expenses (%d skipped)\n",
				res.ExpenseTypes, res.ExpenseNames, res.PaymentMethods, res.CreditCardPayments, res.Expenses, res.SkippedExpenses)
			return nil
		},
	}
}
