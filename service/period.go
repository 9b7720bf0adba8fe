package service

import (
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// Period 报表/复制的统计区间，Month 为 0 表示整年
type Period struct {
	Year  int `json:"year"`
	Month int `json:"month,omitempty"`
}

// NewPeriod 校验并创建区间
func NewPeriod(year, month int) (Period, error) {
	p := Period{Year: year, Month: month}
	return p, p.Validate()
}

// ParsePeriod 解析路径/命令行参数，month 为空表示整年
func ParsePeriod(year, month string) (Period, error) {
	y, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil {
		return Period{}, invalid("year", "must be a number")
	}
	m := 0
	if month = strings.TrimSpace(month); month != "" {
		if m, err = strconv.Atoi(month); err != nil {
			return Period{}, invalid("month", "must be a number")
		}
		if m == 0 {
			return Period{}, invalid("month", "must be between 1 and 12")
		}
	}
	return NewPeriod(y, m)
}

func (p Period) Validate() error {
	if p.Year < 1 || p.Year > 9999 {
		return invalid("year", "must be between 1 and 9999")
	}
	if p.Month < 0 || p.Month > 12 {
		return invalid("month", "must be between 1 and 12")
	}
	return nil
}

// HasMonth 是否为单月区间
func (p Period) HasMonth() bool {
	return p.Month != 0
}

// Bounds 返回 [start, end) 日期字符串
// 日期按 YYYY-MM-DD 存储，字典序与时间序一致
func (p Period) Bounds() (start, end string) {
	if !p.HasMonth() {
		return fmt.Sprintf("%04d-01-01", p.Year), fmt.Sprintf("%04d-01-01", p.Year+1)
	}
	start = fmt.Sprintf("%04d-%02d-01", p.Year, p.Month)
	if p.Month == 12 {
		return start, fmt.Sprintf("%04d-01-01", p.Year+1)
	}
	return start, fmt.Sprintf("%04d-%02d-01", p.Year, p.Month+1)
}

func (p Period) String() string {
	if !p.HasMonth() {
		return fmt.Sprintf("%04d", p.Year)
	}
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// Scope 生成按日期列过滤的 gorm scope
func (p Period) Scope(column string) func(*gorm.DB) *gorm.DB {
	start, end := p.Bounds()
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(column+" >= ? AND "+column+" < ?", start, end)
	}
}
