package export

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"spending/models"

	"github.com/xuri/excelize/v2"
)

const (
	summarySheet   = "Summary"
	maxSheetNameLn = 31
)

var sheetNameReplacer = strings.NewReplacer(
	`\`, "_", "/", "_", "?", "_", "*", "_", "[", "_", "]", "_", ":", "_",
)

// SanitizeSheetName 替换 Excel 不允许的字符并截断到 31 个字符
// 截断后再处理首尾单引号，否则截断可能把引号留在末尾
func SanitizeSheetName(name string) string {
	name = sheetNameReplacer.Replace(strings.TrimSpace(name))
	if name == "" {
		name = "Sheet"
	}
	return fixQuotes(truncateRunes(name, maxSheetNameLn))
}

// fixQuotes 工作表名首尾不能是单引号
func fixQuotes(name string) string {
	if strings.HasPrefix(name, "'") {
		name = "_" + name[1:]
	}
	if strings.HasSuffix(name, "'") {
		name = name[:len(name)-1] + "_"
	}
	return name
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// uniqueSheetName 工作表名不区分大小写，重名时追加序号
func uniqueSheetName(name string, used map[string]bool) string {
	candidate := name
	for i := 2; used[strings.ToLower(candidate)]; i++ {
		suffix := fmt.Sprintf(" (%d)", i)
		candidate = fixQuotes(truncateRunes(name, maxSheetNameLn-len(suffix))) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}

type workbookStyles struct {
	title, header, money int
}

func newStyles(f *excelize.File) (workbookStyles, error) {
	var s workbookStyles
	var err error
	if s.title, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}}); err != nil {
		return s, err
	}
	s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return s, err
	}
	s.money, err = f.NewStyle(&excelize.Style{NumFmt: 4})
	return s, err
}

// WriteWorkbook 生成 Summary 工作表和每个消费类型一个工作表
func WriteWorkbook(w io.Writer, rep *Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return err
	}
	styles, err := newStyles(f)
	if err != nil {
		return fmt.Errorf("create styles: %w", err)
	}

	if err := writeSummarySheet(f, styles, rep); err != nil {
		return fmt.Errorf("write summary sheet: %w", err)
	}

	// 按首次出现顺序分组
	var order []string
	groups := make(map[string][]models.ReportLine)
	for _, l := range rep.Lines {
		if _, ok := groups[l.ExpenseType]; !ok {
			order = append(order, l.ExpenseType)
		}
		groups[l.ExpenseType] = append(groups[l.ExpenseType], l)
	}

	used := map[string]bool{strings.ToLower(summarySheet): true}
	for _, typ := range order {
		name := uniqueSheetName(SanitizeSheetName(typ), used)
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %q: %w", name, err)
		}
		if err := writeTypeSheet(f, styles, name, typ, groups[typ]); err != nil {
			return fmt.Errorf("write sheet %q: %w", name, err)
		}
	}

	f.SetActiveSheet(0)
	return f.Write(w)
}

func writeSummarySheet(f *excelize.File, s workbookStyles, rep *Report) error {
	rows := [][]any{
		{rep.Title},
		{"Period: " + rep.PeriodLabel},
		{"Generated: " + rep.GeneratedAt.Format("2006-01-02")},
		{},
		{"SUMMARY"},
		{"Total Expenses:", rep.Total.InexactFloat64()},
		{"Total Transactions:", rep.TransactionCount},
		{},
		{"BREAKDOWN BY EXPENSE TYPE"},
		{"Expense Type", "Expense", "Payment Method", "Amount", "Transactions"},
	}
	headerRow := len(rows)
	for _, l := range rep.Lines {
		rows = append(rows, []any{l.ExpenseType, l.ExpenseName, l.PaymentMethod, l.Total.InexactFloat64(), l.TransactionCount})
	}

	if err := writeRows(f, summarySheet, rows); err != nil {
		return err
	}
	for col, width := range map[string]float64{"A": 20, "B": 25, "C": 20, "D": 12, "E": 12} {
		if err := f.SetColWidth(summarySheet, col, col, width); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(summarySheet, "A1", "A1", s.title); err != nil {
		return err
	}
	if err := f.SetCellStyle(summarySheet, "B6", "B6", s.money); err != nil {
		return err
	}
	hdr := fmt.Sprintf("A%d", headerRow)
	if err := f.SetCellStyle(summarySheet, hdr, fmt.Sprintf("E%d", headerRow), s.header); err != nil {
		return err
	}
	if len(rep.Lines) > 0 {
		return f.SetCellStyle(summarySheet, fmt.Sprintf("D%d", headerRow+1), fmt.Sprintf("D%d", len(rows)), s.money)
	}
	return nil
}

func writeTypeSheet(f *excelize.File, s workbookStyles, sheet, typ string, lines []models.ReportLine) error {
	rows := [][]any{
		{strings.ToUpper(typ)},
		{},
		{"Expense", "Payment Method", "Amount", "Transactions"},
	}
	for _, l := range lines {
		rows = append(rows, []any{l.ExpenseName, l.PaymentMethod, l.Total.InexactFloat64(), l.TransactionCount})
	}
	if err := writeRows(f, sheet, rows); err != nil {
		return err
	}
	for col, width := range map[string]float64{"A": 25, "B": 20, "C": 12, "D": 12} {
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(sheet, "A1", "A1", s.title); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A3", "D3", s.header); err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "C4", fmt.Sprintf("C%d", len(rows)), s.money)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
