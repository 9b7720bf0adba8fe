package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"spending/events"
	"spending/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Ledger 消费记录与信用卡还款
type Ledger struct {
	db        *gorm.DB
	resolver  *Resolver
	publisher events.Publisher
}

// NewLedger 创建账本服务
func NewLedger(db *gorm.DB, resolver *Resolver, publisher events.Publisher) *Ledger {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Ledger{db: db, resolver: resolver, publisher: publisher}
}

// ExpenseInput 以自由文本提交的消费记录
type ExpenseInput struct {
	Date          string          `json:"date" example:"2024-03-15"`
	ExpenseType   string          `json:"expense_type" example:"Utilities"`
	ExpenseName   string          `json:"expense_name" example:"Water"`
	PaymentMethod string          `json:"payment_method" example:"Bank Account"`
	Description   string          `json:"description" example:"March bill"`
	Amount        decimal.Decimal `json:"amount" swaggertype:"number" example:"42.50"`
	Notes         string          `json:"notes"`
}

func (in *ExpenseInput) normalize() error {
	in.Date = strings.TrimSpace(in.Date)
	in.ExpenseType = strings.TrimSpace(in.ExpenseType)
	in.ExpenseName = strings.TrimSpace(in.ExpenseName)
	in.PaymentMethod = strings.TrimSpace(in.PaymentMethod)
	in.Description = strings.TrimSpace(in.Description)
	in.Notes = strings.TrimSpace(in.Notes)

	if err := validateDate(in.Date); err != nil {
		return err
	}
	if in.ExpenseType == "" {
		return invalid("expense_type", "must not be empty")
	}
	if in.ExpenseName == "" {
		return invalid("expense_name", "must not be empty")
	}
	if in.PaymentMethod == "" {
		return invalid("payment_method", "must not be empty")
	}
	return validateAmount(&in.Amount)
}

// CardPaymentInput 信用卡还款
type CardPaymentInput struct {
	Date           string          `json:"date" example:"2024-03-28"`
	CreditCardName string          `json:"credit_card_name" example:"Credit Card 1"`
	Amount         decimal.Decimal `json:"amount" swaggertype:"number" example:"80.00"`
	Notes          string          `json:"notes"`
}

func (in *CardPaymentInput) normalize() error {
	in.Date = strings.TrimSpace(in.Date)
	in.CreditCardName = strings.TrimSpace(in.CreditCardName)
	in.Notes = strings.TrimSpace(in.Notes)

	if err := validateDate(in.Date); err != nil {
		return err
	}
	if in.CreditCardName == "" {
		return invalid("credit_card_name", "must not be empty")
	}
	return validateAmount(&in.Amount)
}

func validateDate(date string) error {
	if date == "" {
		return invalid("date", "must not be empty")
	}
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return invalid("date", "must be a valid date in YYYY-MM-DD format")
	}
	return nil
}

func validateAmount(amount *decimal.Decimal) error {
	if amount.IsNegative() {
		return invalid("amount", "must not be negative")
	}
	*amount = amount.Round(2)
	return nil
}

// ExpenseFilter 消费列表筛选，名称与 id 条件可同时使用
type ExpenseFilter struct {
	Year            int    `form:"year"`
	Month           int    `form:"month"`
	ExpenseType     string `form:"expense_type"`
	ExpenseName     string `form:"expense_name"`
	PaymentMethod   string `form:"payment_method"`
	ExpenseTypeID   uint   `form:"expense_type_id"`
	ExpenseNameID   uint   `form:"expense_name_id"`
	PaymentMethodID uint   `form:"payment_method_id"`
}

// CardPaymentFilter 还款列表筛选
type CardPaymentFilter struct {
	Year           int    `form:"year"`
	Month          int    `form:"month"`
	CreditCardName string `form:"credit_card_name"`
}

func periodScope(year, month int, column string) (func(*gorm.DB) *gorm.DB, error) {
	if year == 0 && month == 0 {
		return func(db *gorm.DB) *gorm.DB { return db }, nil
	}
	if year == 0 {
		return nil, invalid("year", "is required when month is given")
	}
	p, err := NewPeriod(year, month)
	if err != nil {
		return nil, err
	}
	return p.Scope(column), nil
}

// ListExpenses 按筛选条件列出消费，按日期倒序
func (l *Ledger) ListExpenses(ctx context.Context, f ExpenseFilter) ([]models.Expense, error) {
	scope, err := periodScope(f.Year, f.Month, "date")
	if err != nil {
		return nil, err
	}

	db := l.db.WithContext(ctx)
	q := db.Model(&models.Expense{}).Scopes(scope)
	if f.ExpenseType != "" {
		q = q.Where("expense_type_id IN (?)", db.Model(&models.ExpenseType{}).Select("id").Where("name = ?", f.ExpenseType))
	}
	if f.ExpenseName != "" {
		q = q.Where("expense_name_id IN (?)", db.Model(&models.ExpenseName{}).Select("id").Where("name = ?", f.ExpenseName))
	}
	if f.PaymentMethod != "" {
		q = q.Where("payment_method_id IN (?)", db.Model(&models.PaymentMethod{}).Select("id").Where("name = ?", f.PaymentMethod))
	}
	if f.ExpenseTypeID != 0 {
		q = q.Where("expense_type_id = ?", f.ExpenseTypeID)
	}
	if f.ExpenseNameID != 0 {
		q = q.Where("expense_name_id = ?", f.ExpenseNameID)
	}
	if f.PaymentMethodID != 0 {
		q = q.Where("payment_method_id = ?", f.PaymentMethodID)
	}

	var rows []models.Expense
	err = q.Preload("ExpenseType").Preload("ExpenseName").Preload("PaymentMethod").
		Order("date DESC").Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, storageErr("list expenses", err)
	}
	return rows, nil
}

// GetExpense 按 id 获取消费
func (l *Ledger) GetExpense(ctx context.Context, id uint) (*models.Expense, error) {
	var row models.Expense
	err := l.db.WithContext(ctx).
		Preload("ExpenseType").Preload("ExpenseName").Preload("PaymentMethod").
		First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Entity: "Expense", Key: fmt.Sprint(id)}
	}
	if err != nil {
		return nil, storageErr("get expense", err)
	}
	return &row, nil
}

// resolveExpense 解析三个名称；支付方式最先严格查找，未知时不会创建任何目录行
func resolveExpense(ctx context.Context, r *Resolver, in ExpenseInput) (models.Expense, error) {
	pmID, err := r.ResolveStrict(ctx, in.PaymentMethod)
	if err != nil {
		return models.Expense{}, err
	}
	typeID, err := r.ResolveOrCreate(ctx, ExpenseTypes, in.ExpenseType)
	if err != nil {
		return models.Expense{}, err
	}
	nameID, err := r.ResolveOrCreate(ctx, ExpenseNames, in.ExpenseName)
	if err != nil {
		return models.Expense{}, err
	}
	return models.Expense{
		Date:            in.Date,
		ExpenseTypeID:   typeID,
		ExpenseNameID:   nameID,
		PaymentMethodID: pmID,
		Description:     in.Description,
		Amount:          in.Amount,
		Notes:           in.Notes,
	}, nil
}

// CreateExpense 创建消费：类型/消费项惰性创建，支付方式必须已存在
func (l *Ledger) CreateExpense(ctx context.Context, in ExpenseInput) (*models.Expense, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	row, err := resolveExpense(ctx, l.resolver, in)
	if err != nil {
		return nil, err
	}
	if err := l.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, storageErr("create expense", err)
	}

	events.Emit(ctx, l.publisher, events.ExpenseCreated, row.ID)
	return l.GetExpense(ctx, row.ID)
}

// UpdateExpense 按 id 整体更新消费
func (l *Ledger) UpdateExpense(ctx context.Context, id uint, in ExpenseInput) (*models.Expense, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	if _, err := l.GetExpense(ctx, id); err != nil {
		return nil, err
	}
	row, err := resolveExpense(ctx, l.resolver, in)
	if err != nil {
		return nil, err
	}

	err = l.db.WithContext(ctx).Model(&models.Expense{ID: id}).
		Select("date", "expense_type_id", "expense_name_id", "payment_method_id", "description", "amount", "notes").
		Updates(&row).Error
	if err != nil {
		return nil, storageErr("update expense", err)
	}

	events.Emit(ctx, l.publisher, events.ExpenseUpdated, id)
	return l.GetExpense(ctx, id)
}

// DeleteExpense 按 id 删除消费
func (l *Ledger) DeleteExpense(ctx context.Context, id uint) error {
	res := l.db.WithContext(ctx).Delete(&models.Expense{}, id)
	if res.Error != nil {
		return storageErr("delete expense", res.Error)
	}
	if res.RowsAffected == 0 {
		return &NotFoundError{Entity: "Expense", Key: fmt.Sprint(id)}
	}
	events.Emit(ctx, l.publisher, events.ExpenseDeleted, id)
	return nil
}

// ListCardPayments 按筛选条件列出还款
func (l *Ledger) ListCardPayments(ctx context.Context, f CardPaymentFilter) ([]models.CreditCardPayment, error) {
	scope, err := periodScope(f.Year, f.Month, "date")
	if err != nil {
		return nil, err
	}

	q := l.db.WithContext(ctx).Model(&models.CreditCardPayment{}).Scopes(scope)
	if name := strings.TrimSpace(f.CreditCardName); name != "" {
		q = q.Where("credit_card_name = ?", name)
	}

	var rows []models.CreditCardPayment
	if err := q.Order("date DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, storageErr("list card payments", err)
	}
	return rows, nil
}

// GetCardPayment 按 id 获取还款
func (l *Ledger) GetCardPayment(ctx context.Context, id uint) (*models.CreditCardPayment, error) {
	var row models.CreditCardPayment
	err := l.db.WithContext(ctx).First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Entity: "Credit card payment", Key: fmt.Sprint(id)}
	}
	if err != nil {
		return nil, storageErr("get card payment", err)
	}
	return &row, nil
}

// CreateCardPayment 创建还款，卡名为自由文本
func (l *Ledger) CreateCardPayment(ctx context.Context, in CardPaymentInput) (*models.CreditCardPayment, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	row := models.CreditCardPayment{
		Date:           in.Date,
		CreditCardName: in.CreditCardName,
		Amount:         in.Amount,
		Notes:          in.Notes,
	}
	if err := l.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, storageErr("create card payment", err)
	}

	events.Emit(ctx, l.publisher, events.CardPaymentCreated, row.ID)
	return &row, nil
}

// UpdateCardPayment 按 id 整体更新还款
func (l *Ledger) UpdateCardPayment(ctx context.Context, id uint, in CardPaymentInput) (*models.CreditCardPayment, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	if _, err := l.GetCardPayment(ctx, id); err != nil {
		return nil, err
	}

	row := models.CreditCardPayment{
		Date:           in.Date,
		CreditCardName: in.CreditCardName,
		Amount:         in.Amount,
		Notes:          in.Notes,
	}
	err := l.db.WithContext(ctx).Model(&models.CreditCardPayment{ID: id}).
		Select("date", "credit_card_name", "amount", "notes").
		Updates(&row).Error
	if err != nil {
		return nil, storageErr("update card payment", err)
	}

	events.Emit(ctx, l.publisher, events.CardPaymentUpdated, id)
	return l.GetCardPayment(ctx, id)
}

// DeleteCardPayment 按 id 删除还款
func (l *Ledger) DeleteCardPayment(ctx context.Context, id uint) error {
	res := l.db.WithContext(ctx).Delete(&models.CreditCardPayment{}, id)
	if res.Error != nil {
		return storageErr("delete card payment", res.Error)
	}
	if res.RowsAffected == 0 {
		return &NotFoundError{Entity: "Credit card payment", Key: fmt.Sprint(id)}
	}
	events.Emit(ctx, l.publisher, events.CardPaymentDeleted, id)
	return nil
}
