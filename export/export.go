package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"spending/models"
	"spending/service"

	"github.com/shopspring/decimal"
)

// Format 导出格式
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// ParseFormat 解析导出格式，空值默认为 xlsx
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatXLSX:
		return FormatXLSX, nil
	case FormatPDF:
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// ContentType 响应头 Content-Type
func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Report 导出所需的报表数据，与存储层解耦
type Report struct {
	Title            string
	PeriodLabel      string
	Lines            []models.ReportLine
	Total            decimal.Decimal
	TransactionCount int64
	GeneratedAt      time.Time
}

// FromPeriodReport 由报表服务的结果构造导出数据
func FromPeriodReport(rep *service.PeriodReport) *Report {
	return &Report{
		Title:            "Personal Spending Report",
		PeriodLabel:      PeriodLabel(rep.Period.Year, rep.Period.Month),
		Lines:            rep.Lines,
		Total:            rep.Total,
		TransactionCount: rep.TransactionCount,
		GeneratedAt:      rep.GeneratedAt,
	}
}

// Filename 下载文件名，如 spending-report-2024-03.xlsx
func Filename(periodKey string, f Format) string {
	return fmt.Sprintf("spending-report-%s.%s", periodKey, f)
}

// Render 按格式渲染报表
func Render(rep *Report, f Format) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch f {
	case FormatPDF:
		err = WritePDF(&buf, rep)
	default:
		err = WriteWorkbook(&buf, rep)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PeriodLabel 区间显示名，如 "March 2024" 或 "2024"
func PeriodLabel(year, month int) string {
	if month == 0 {
		return fmt.Sprintf("%d", year)
	}
	return fmt.Sprintf("%s %d", time.Month(month), year)
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
