package models

import (
	"time"
)

// ExpenseType 消费类型（如 Groceries），提交消费时按名称自动创建
type ExpenseType struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:100;not null;uniqueIndex"`
	CreatedAt time.Time `json:"created_at"`
}

func (ExpenseType) TableName() string {
	return "expense_types"
}

// ExpenseName 具体消费项（category，如 Water bill），规则同 ExpenseType
type ExpenseName struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:100;not null;uniqueIndex"`
	CreatedAt time.Time `json:"created_at"`
}

func (ExpenseName) TableName() string {
	return "expense_names"
}

// DefaultExpenseTypes 空库时写入的默认消费类型
func DefaultExpenseTypes() []string {
	return []string{
		"Utilities",
		"House Maintenance",
		"Activities",
		"Child Care",
		"Taxes",
		"Insurance",
		"Medical",
		"Groceries",
		"Transportation",
		"Entertainment",
		"Shopping",
		"Dining",
		"Travel",
	}
}

// DefaultExpenseNames 空库时写入的默认消费项
func DefaultExpenseNames() []string {
	return []string{
		"Water",
		"Electricity",
		"Gas",
	}
}
