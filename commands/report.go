package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"spending/export"
	"spending/service"

	"github.com/spf13/cobra"
)

func newReportCommand(opts *rootOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "report <year> [month]",
		Short: "生成年度或月度报表",
		Long:  "不指定 --out 时以表格输出到终端；--out 以扩展名 .xlsx 或 .pdf 决定导出格式",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			month := ""
			if len(args) > 1 {
				month = args[1]
			}
			p, err := service.ParsePeriod(args[0], month)
			if err != nil {
				return err
			}

			a, err := opts.bootstrap(false)
			if err != nil {
				return err
			}
			defer a.Close()

			rep, err := a.svc.Reports.Summarize(cmd.Context(), p)
			if err != nil {
				return err
			}
			if out == "" {
				return printReport(cmd.OutOrStdout(), rep)
			}
			return writeReportFile(out, rep)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "导出文件路径（.xlsx 或 .pdf）")
	return cmd
}

func writeReportFile(path string, rep *service.PeriodReport) error {
	format, err := export.ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return err
	}
	data, err := export.Render(export.FromPeriodReport(rep), format)
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func printReport(w io.Writer, rep *service.PeriodReport) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Spending report %s\n\n", export.PeriodLabel(rep.Period.Year, rep.Period.Month))
	fmt.Fprintln(tw, "TYPE\tNAME\tPAYMENT METHOD\tCOUNT\tTOTAL")
	for _, l := range rep.Lines {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", l.ExpenseType, l.ExpenseName, l.PaymentMethod, l.TransactionCount, l.Total.StringFixed(2))
	}
	fmt.Fprintf(tw, "\t\tTOTAL\t%d\t%s\n", rep.TransactionCount, rep.Total.StringFixed(2))
	return tw.Flush()
}
