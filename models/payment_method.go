package models

import (
	"time"
)

// PaymentMethodKind 支付方式类型
type PaymentMethodKind string

const (
	KindBankAccount PaymentMethodKind = "bank_account"
	KindCreditCard  PaymentMethodKind = "credit_card"
)

// Valid 是否为已知类型
func (k PaymentMethodKind) Valid() bool {
	return k == KindBankAccount || k == KindCreditCard
}

// PaymentMethod 支付方式，只能显式创建，不会因消费提交而自动生成
type PaymentMethod struct {
	ID        uint              `json:"id" gorm:"primaryKey"`
	Name      string            `json:"name" gorm:"size:100;not null;uniqueIndex"`
	Kind      PaymentMethodKind `json:"kind" gorm:"size:20;not null;index"`
	CreatedAt time.Time         `json:"created_at"`
}

func (PaymentMethod) TableName() string {
	return "payment_methods"
}

// DefaultPaymentMethods 空库时写入的默认支付方式
func DefaultPaymentMethods() []PaymentMethod {
	return []PaymentMethod{
		{Name: "Bank Account", Kind: KindBankAccount},
		{Name: "Credit Card 1", Kind: KindCreditCard},
		{Name: "Credit Card 2", Kind: KindCreditCard},
		{Name: "Credit Card 3", Kind: KindCreditCard},
	}
}
