package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"spending/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Catalog 目录数据：消费类型、消费项、支付方式
type Catalog struct {
	db *gorm.DB
}

// NewCatalog 创建目录服务
func NewCatalog(db *gorm.DB) *Catalog {
	return &Catalog{db: db}
}

// PaymentMethodInput 创建/更新支付方式
type PaymentMethodInput struct {
	Name string                   `json:"name" binding:"required" example:"Visa"`
	Kind models.PaymentMethodKind `json:"kind" binding:"required" example:"credit_card"`
}

func (in *PaymentMethodInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return invalid("name", "must not be empty")
	}
	if !in.Kind.Valid() {
		return invalid("kind", fmt.Sprintf("must be %s or %s", models.KindBankAccount, models.KindCreditCard))
	}
	return nil
}

// PaymentMethodUpdate 更新结果
// 信用卡还款按名称关联，改名不会级联，OrphanedPayments 为仍使用旧名称的还款数
type PaymentMethodUpdate struct {
	PaymentMethod    models.PaymentMethod `json:"payment_method"`
	OrphanedPayments int64                `json:"orphaned_payments"`
}

func (c *Catalog) ListExpenseTypes(ctx context.Context) ([]models.ExpenseType, error) {
	var rows []models.ExpenseType
	if err := c.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, storageErr("list expense types", err)
	}
	return rows, nil
}

func (c *Catalog) ListExpenseNames(ctx context.Context) ([]models.ExpenseName, error) {
	var rows []models.ExpenseName
	if err := c.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, storageErr("list expense names", err)
	}
	return rows, nil
}

func (c *Catalog) ListPaymentMethods(ctx context.Context) ([]models.PaymentMethod, error) {
	var rows []models.PaymentMethod
	if err := c.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, storageErr("list payment methods", err)
	}
	return rows, nil
}

// CreateExpenseType 显式创建消费类型，重名返回 ConflictError
func (c *Catalog) CreateExpenseType(ctx context.Context, name string) (*models.ExpenseType, error) {
	row := models.ExpenseType{Name: strings.TrimSpace(name)}
	if row.Name == "" {
		return nil, invalid("name", "must not be empty")
	}
	if err := c.insertUnique(ctx, &row, "expense type"); err != nil {
		return nil, err
	}
	return &row, nil
}

// CreateExpenseName 显式创建消费项
func (c *Catalog) CreateExpenseName(ctx context.Context, name string) (*models.ExpenseName, error) {
	row := models.ExpenseName{Name: strings.TrimSpace(name)}
	if row.Name == "" {
		return nil, invalid("name", "must not be empty")
	}
	if err := c.insertUnique(ctx, &row, "expense name"); err != nil {
		return nil, err
	}
	return &row, nil
}

// CreatePaymentMethod 创建支付方式，这是支付方式的唯一来源
func (c *Catalog) CreatePaymentMethod(ctx context.Context, in PaymentMethodInput) (*models.PaymentMethod, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	row := models.PaymentMethod{Name: in.Name, Kind: in.Kind}
	if err := c.insertUnique(ctx, &row, "payment method"); err != nil {
		return nil, err
	}
	return &row, nil
}

func (c *Catalog) insertUnique(ctx context.Context, row any, entity string) error {
	res := c.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(row)
	if res.Error != nil {
		return storageErr("create "+entity, res.Error)
	}
	if res.RowsAffected == 0 {
		return &ConflictError{Reason: entity + " already exists"}
	}
	return nil
}

// UpdatePaymentMethod 按 id 更新支付方式
func (c *Catalog) UpdatePaymentMethod(ctx context.Context, id uint, in PaymentMethodInput) (*PaymentMethodUpdate, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	var result PaymentMethodUpdate
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var pm models.PaymentMethod
		if err := tx.First(&pm, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "Payment method", Key: fmt.Sprint(id)}
			}
			return err
		}

		oldName := pm.Name
		if in.Name != oldName {
			var taken int64
			if err := tx.Model(&models.PaymentMethod{}).Where("name = ? AND id <> ?", in.Name, id).Count(&taken).Error; err != nil {
				return err
			}
			if taken > 0 {
				return &ConflictError{Reason: "payment method name already in use"}
			}
		}

		if err := tx.Model(&pm).Updates(map[string]any{"name": in.Name, "kind": in.Kind}).Error; err != nil {
			return err
		}
		pm.Name, pm.Kind = in.Name, in.Kind
		result.PaymentMethod = pm

		if in.Name != oldName {
			if err := tx.Model(&models.CreditCardPayment{}).Where("credit_card_name = ?", oldName).Count(&result.OrphanedPayments).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, storageErr("update payment method", err)
	}
	return &result, nil
}

// DeletePaymentMethod 删除未被任何消费引用的支付方式
func (c *Catalog) DeletePaymentMethod(ctx context.Context, id uint) error {
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var pm models.PaymentMethod
		if err := tx.Select("id").First(&pm, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "Payment method", Key: fmt.Sprint(id)}
			}
			return err
		}

		var refs int64
		if err := tx.Model(&models.Expense{}).Where("payment_method_id = ?", id).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return &ConflictError{Reason: "payment method is used by existing expenses", Count: refs}
		}
		return tx.Delete(&models.PaymentMethod{}, id).Error
	})
	return storageErr("delete payment method", err)
}

// ListCreditCardNames 信用卡名称：信用卡类支付方式与还款记录中出现过的名称的并集
func (c *Catalog) ListCreditCardNames(ctx context.Context) ([]string, error) {
	db := c.db.WithContext(ctx)

	var fromMethods, fromPayments []string
	if err := db.Model(&models.PaymentMethod{}).Where("kind = ?", models.KindCreditCard).Pluck("name", &fromMethods).Error; err != nil {
		return nil, storageErr("list credit cards", err)
	}
	if err := db.Model(&models.CreditCardPayment{}).Distinct("credit_card_name").Pluck("credit_card_name", &fromPayments).Error; err != nil {
		return nil, storageErr("list credit cards", err)
	}

	seen := make(map[string]struct{}, len(fromMethods)+len(fromPayments))
	names := make([]string, 0, len(fromMethods)+len(fromPayments))
	for _, n := range append(fromMethods, fromPayments...) {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}
