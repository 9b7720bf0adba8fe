package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// UntrackedExpenseType 未记账信用卡消费的合成类型名
const UntrackedExpenseType = "Untracked Expenses"

// ReportLine 报表行：按 类型/消费项/支付方式 汇总
type ReportLine struct {
	ExpenseType       string            `json:"expense_type"`
	ExpenseName       string            `json:"expense_name"`
	PaymentMethod     string            `json:"payment_method"`
	PaymentMethodKind PaymentMethodKind `json:"payment_method_kind"`
	Total             decimal.Decimal   `json:"total"`
	TransactionCount  int64             `json:"transaction_count"`
	Untracked         bool              `json:"untracked"`
}

// UntrackedLine 为信用卡生成未记账差额行
func UntrackedLine(cardName string, amount decimal.Decimal) ReportLine {
	return ReportLine{
		ExpenseType:       UntrackedExpenseType,
		ExpenseName:       fmt.Sprintf("%s - Untracked", cardName),
		PaymentMethod:     cardName,
		PaymentMethodKind: KindCreditCard,
		Total:             amount,
		TransactionCount:  1,
		Untracked:         true,
	}
}
