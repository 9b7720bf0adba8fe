package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"spending/events"
	"spending/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MergeResult 各表新插入的行数
type MergeResult struct {
	ExpenseTypes       int `json:"expense_types"`
	ExpenseNames       int `json:"expense_names"`
	PaymentMethods     int `json:"payment_methods"`
	CreditCardPayments int `json:"credit_card_payments"`
	Expenses           int `json:"expenses"`
	SkippedExpenses    int `json:"skipped_expenses"`
}

// Importer 把外部快照合并进当前数据库
type Importer struct {
	db        *gorm.DB
	resolver  *Resolver
	publisher events.Publisher
}

// NewImporter 创建合并导入服务
func NewImporter(db *gorm.DB, resolver *Resolver, publisher events.Publisher) *Importer {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Importer{db: db, resolver: resolver, publisher: publisher}
}

// MergeSnapshot 在一个事务内合并快照，任何失败都会回滚整个合并
// 外部 id 先经快照自身的目录换成名称，再按本地规则解析为本地 id
func (im *Importer) MergeSnapshot(ctx context.Context, snap *Snapshot) (*MergeResult, error) {
	if snap == nil {
		return nil, invalid("file", "snapshot is empty")
	}

	result := &MergeResult{}
	err := im.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, t := range snap.ExpenseTypes {
			n, err := insertIgnore(tx, &models.ExpenseType{Name: strings.TrimSpace(t.Name)}, t.Name)
			if err != nil {
				return err
			}
			result.ExpenseTypes += n
		}
		for _, t := range snap.ExpenseNames {
			n, err := insertIgnore(tx, &models.ExpenseName{Name: strings.TrimSpace(t.Name)}, t.Name)
			if err != nil {
				return err
			}
			result.ExpenseNames += n
		}
		for _, pm := range snap.PaymentMethods {
			if !pm.Kind.Valid() {
				return invalid("payment_methods", fmt.Sprintf("unknown kind %q for %q", pm.Kind, pm.Name))
			}
			n, err := insertIgnore(tx, &models.PaymentMethod{Name: strings.TrimSpace(pm.Name), Kind: pm.Kind}, pm.Name)
			if err != nil {
				return err
			}
			result.PaymentMethods += n
		}

		for _, p := range snap.CreditCardPayments {
			in := CardPaymentInput{Date: p.Date, CreditCardName: p.CreditCardName, Amount: p.Amount, Notes: p.Notes}
			if err := in.normalize(); err != nil {
				return fmt.Errorf("credit card payment %d: %w", p.ID, err)
			}
			row := models.CreditCardPayment{Date: in.Date, CreditCardName: in.CreditCardName, Amount: in.Amount, Notes: in.Notes}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			result.CreditCardPayments++
		}

		return im.mergeExpenses(ctx, tx, snap, result)
	})
	if err != nil {
		return nil, storageErr("merge snapshot", err)
	}

	slog.InfoContext(ctx, "快照合并完成", "snapshot", snap.ID, "expenses", result.Expenses, "skipped", result.SkippedExpenses)
	events.Emit(ctx, im.publisher, events.LedgerMerged, result)
	return result, nil
}

func (im *Importer) mergeExpenses(ctx context.Context, tx *gorm.DB, snap *Snapshot, result *MergeResult) error {
	typeNames := make(map[uint]string, len(snap.ExpenseTypes))
	for _, t := range snap.ExpenseTypes {
		typeNames[t.ID] = t.Name
	}
	nameNames := make(map[uint]string, len(snap.ExpenseNames))
	for _, n := range snap.ExpenseNames {
		nameNames[n.ID] = n.Name
	}
	methodNames := make(map[uint]string, len(snap.PaymentMethods))
	for _, pm := range snap.PaymentMethods {
		methodNames[pm.ID] = pm.Name
	}

	resolver := im.resolver.WithTx(tx)
	for _, e := range snap.Expenses {
		typeName, ok1 := typeNames[e.ExpenseTypeID]
		nameName, ok2 := nameNames[e.ExpenseNameID]
		methodName, ok3 := methodNames[e.PaymentMethodID]
		if !ok1 || !ok2 || !ok3 {
			result.SkippedExpenses++
			continue
		}

		in := ExpenseInput{
			Date:          e.Date,
			ExpenseType:   typeName,
			ExpenseName:   nameName,
			PaymentMethod: methodName,
			Description:   e.Description,
			Amount:        e.Amount,
			Notes:         e.Notes,
		}
		if err := in.normalize(); err != nil {
			return fmt.Errorf("expense %d: %w", e.ID, err)
		}

		row, err := resolveExpense(ctx, resolver, in)
		var nf *NotFoundError
		if errors.As(err, &nf) {
			result.SkippedExpenses++
			continue
		}
		if err != nil {
			return err
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		result.Expenses++
	}
	return nil
}

func insertIgnore(tx *gorm.DB, row any, name string) (int, error) {
	if strings.TrimSpace(name) == "" {
		return 0, invalid("name", "catalog names must not be empty")
	}
	res := tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).Create(row)
	if res.Error != nil {
		return 0, res.Error
	}
	return int(res.RowsAffected), nil
}
