package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreditCardPayment 信用卡还款记录
// CreditCardName 是自由文本，与 PaymentMethod 仅按名称匹配，不建外键
type CreditCardPayment struct {
	ID             uint            `json:"id" gorm:"primaryKey"`
	Date           string          `json:"date" gorm:"size:10;not null;index"`
	CreditCardName string          `json:"credit_card_name" gorm:"size:100;not null;index"`
	Amount         decimal.Decimal `json:"amount" gorm:"type:decimal(12,2);not null"`
	Notes          string          `json:"notes" gorm:"size:500"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (CreditCardPayment) TableName() string {
	return "credit_card_payments"
}
