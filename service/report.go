package service

import (
	"context"
	"sort"
	"time"

	"spending/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Reports 对账报表引擎
type Reports struct {
	db *gorm.DB
}

// NewReports 创建报表服务
func NewReports(db *gorm.DB) *Reports {
	return &Reports{db: db}
}

// PeriodReport 报表及汇总信息，供导出使用
type PeriodReport struct {
	Period           Period              `json:"period"`
	Lines            []models.ReportLine `json:"lines"`
	Total            decimal.Decimal     `json:"total"`
	TransactionCount int64               `json:"transaction_count"`
	GeneratedAt      time.Time           `json:"generated_at"`
}

type cardTotal struct {
	Name  string
	Total decimal.Decimal
}

// BuildPeriodReport 生成区间报表
// 普通行按 类型、消费项、金额倒序 排列，随后追加各信用卡的未记账差额行
func (r *Reports) BuildPeriodReport(ctx context.Context, p Period) ([]models.ReportLine, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	start, end := p.Bounds()

	var (
		lines    []models.ReportLine
		payments []cardTotal
		itemized []cardTotal
	)
	// 三个聚合查询放在同一个读事务里，避免读偏斜
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Table("expenses AS e").
			Select(`et.name AS expense_type, en.name AS expense_name, pm.name AS payment_method,
				pm.kind AS payment_method_kind, SUM(e.amount) AS total, COUNT(*) AS transaction_count`).
			Joins("JOIN expense_types et ON et.id = e.expense_type_id").
			Joins("JOIN expense_names en ON en.id = e.expense_name_id").
			Joins("JOIN payment_methods pm ON pm.id = e.payment_method_id").
			Where("e.date >= ? AND e.date < ?", start, end).
			Group("e.expense_type_id, e.expense_name_id, e.payment_method_id, et.name, en.name, pm.name, pm.kind").
			Order("et.name, en.name, total DESC, pm.name").
			Scan(&lines).Error
		if err != nil {
			return err
		}

		err = tx.Table("credit_card_payments").
			Select("credit_card_name AS name, SUM(amount) AS total").
			Where("date >= ? AND date < ?", start, end).
			Group("credit_card_name").
			Scan(&payments).Error
		if err != nil {
			return err
		}

		return tx.Table("expenses AS e").
			Select("pm.name AS name, SUM(e.amount) AS total").
			Joins("JOIN payment_methods pm ON pm.id = e.payment_method_id").
			Where("pm.kind = ?", models.KindCreditCard).
			Where("e.date >= ? AND e.date < ?", start, end).
			Group("pm.name").
			Scan(&itemized).Error
	})
	if err != nil {
		return nil, storageErr("build report", err)
	}

	for i := range lines {
		lines[i].Total = lines[i].Total.Round(2)
	}
	lines = append(lines, untrackedLines(payments, itemized)...)
	if lines == nil {
		lines = []models.ReportLine{}
	}
	return lines, nil
}

// untrackedLines 还款额减去同期已记账的信用卡消费，只输出正差额
func untrackedLines(payments, itemized []cardTotal) []models.ReportLine {
	spent := make(map[string]decimal.Decimal, len(itemized))
	for _, it := range itemized {
		spent[it.Name] = it.Total
	}

	sort.Slice(payments, func(i, j int) bool { return payments[i].Name < payments[j].Name })

	var out []models.ReportLine
	for _, p := range payments {
		residual := p.Total.Sub(spent[p.Name]).Round(2)
		if !residual.IsPositive() {
			continue
		}
		out = append(out, models.UntrackedLine(p.Name, residual))
	}
	return out
}

// Summarize 生成带合计的报表
func (r *Reports) Summarize(ctx context.Context, p Period) (*PeriodReport, error) {
	lines, err := r.BuildPeriodReport(ctx, p)
	if err != nil {
		return nil, err
	}
	rep := &PeriodReport{
		Period:      p,
		Lines:       lines,
		Total:       decimal.Zero,
		GeneratedAt: time.Now(),
	}
	for _, l := range lines {
		rep.Total = rep.Total.Add(l.Total)
		rep.TransactionCount += l.TransactionCount
	}
	return rep, nil
}
