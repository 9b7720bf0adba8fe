package service

import (
	"context"
	"log/slog"
	"time"

	"spending/events"
	"spending/models"
)

// DuplicateKind 复制的账本类型
type DuplicateKind string

const (
	DuplicateExpenses     DuplicateKind = "expense"
	DuplicateCardPayments DuplicateKind = "card_payment"
)

// DuplicateResult 复制结果，逐行失败只计数不中断
type DuplicateResult struct {
	Kind         DuplicateKind `json:"kind"`
	Source       Period        `json:"source"`
	Date         string        `json:"date"`
	SuccessCount int           `json:"success_count"`
	FailCount    int           `json:"fail_count"`
	Failures     []string      `json:"failures,omitempty"`
}

// Duplicator 把某个月的账本行复制到今天
type Duplicator struct {
	ledger    *Ledger
	publisher events.Publisher
	now       func() time.Time
}

// NewDuplicator 创建复制服务
func NewDuplicator(ledger *Ledger, publisher events.Publisher) *Duplicator {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Duplicator{ledger: ledger, publisher: publisher, now: time.Now}
}

// DuplicatePeriod 复制源月份的全部行，日期改为执行当天
// 逐行顺序提交，前一行惰性创建的目录对后一行可见
func (d *Duplicator) DuplicatePeriod(ctx context.Context, source Period, kind DuplicateKind) (*DuplicateResult, error) {
	if err := source.Validate(); err != nil {
		return nil, err
	}
	if !source.HasMonth() {
		return nil, invalid("month", "is required")
	}

	result := &DuplicateResult{Kind: kind, Source: source, Date: d.now().Format(models.DateLayout)}

	var inputs []any
	switch kind {
	case DuplicateExpenses:
		rows, err := d.ledger.ListExpenses(ctx, ExpenseFilter{Year: source.Year, Month: source.Month})
		if err != nil {
			return nil, err
		}
		for _, e := range rows {
			in := ExpenseInput{
				Date:        result.Date,
				Description: e.Description,
				Amount:      e.Amount,
				Notes:       e.Notes,
			}
			if e.ExpenseType != nil {
				in.ExpenseType = e.ExpenseType.Name
			}
			if e.ExpenseName != nil {
				in.ExpenseName = e.ExpenseName.Name
			}
			if e.PaymentMethod != nil {
				in.PaymentMethod = e.PaymentMethod.Name
			}
			inputs = append(inputs, in)
		}
	case DuplicateCardPayments:
		rows, err := d.ledger.ListCardPayments(ctx, CardPaymentFilter{Year: source.Year, Month: source.Month})
		if err != nil {
			return nil, err
		}
		for _, p := range rows {
			inputs = append(inputs, CardPaymentInput{
				Date:           result.Date,
				CreditCardName: p.CreditCardName,
				Amount:         p.Amount,
				Notes:          p.Notes,
			})
		}
	default:
		return nil, invalid("kind", "must be expense or card_payment")
	}

	if len(inputs) == 0 {
		return result, nil
	}

	for _, in := range inputs {
		var err error
		switch v := in.(type) {
		case ExpenseInput:
			_, err = d.ledger.CreateExpense(ctx, v)
		case CardPaymentInput:
			_, err = d.ledger.CreateCardPayment(ctx, v)
		}
		if err != nil {
			result.FailCount++
			result.Failures = append(result.Failures, err.Error())
			slog.WarnContext(ctx, "复制账本行失败", "kind", kind, "source", source.String(), "error", err)
			continue
		}
		result.SuccessCount++
	}

	slog.InfoContext(ctx, "复制账本完成",
		"kind", kind,
		"source", source.String(),
		"success", result.SuccessCount,
		"failed", result.FailCount)
	events.Emit(ctx, d.publisher, events.LedgerDuplicated, result)
	return result, nil
}
