package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout 账本日期格式（无时间部分）
const DateLayout = "2006-01-02"

// Expense 消费记录模型，三个维度均通过 id 关联目录表
type Expense struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	Date            string          `json:"date" gorm:"size:10;not null;index"`
	ExpenseTypeID   uint            `json:"expense_type_id" gorm:"not null;index"`
	ExpenseNameID   uint            `json:"expense_name_id" gorm:"not null;index"`
	PaymentMethodID uint            `json:"payment_method_id" gorm:"not null;index"`
	Description     string          `json:"description" gorm:"size:255"`
	Amount          decimal.Decimal `json:"amount" gorm:"type:decimal(12,2);not null"`
	Notes           string          `json:"notes" gorm:"size:500"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	ExpenseType     *ExpenseType    `json:"expense_type,omitempty" gorm:"foreignKey:ExpenseTypeID"`
	ExpenseName     *ExpenseName    `json:"expense_name,omitempty" gorm:"foreignKey:ExpenseNameID"`
	PaymentMethod   *PaymentMethod  `json:"payment_method,omitempty" gorm:"foreignKey:PaymentMethodID"`
}

// TableName 设置表名
func (Expense) TableName() string {
	return "expenses"
}
