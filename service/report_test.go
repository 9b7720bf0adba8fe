package service

import (
	"context"
	"testing"

	"spending/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func splitLines(lines []models.ReportLine) (ordinary, untracked []models.ReportLine) {
	for _, l := range lines {
		if l.Untracked {
			untracked = append(untracked, l)
		} else {
			ordinary = append(ordinary, l)
		}
	}
	return ordinary, untracked
}

func TestBuildPeriodReport_UntrackedResidual(t *testing.T) {
	s, _ := newTestServices(t)
	mustPaymentMethod(t, s, "Card A", models.KindCreditCard)
	mustExpense(t, s, "2024-03-10", "Groceries", "Market", "Card A", "50")
	mustCardPayment(t, s, "2024-03-28", "Card A", "80")

	lines, err := s.Reports.BuildPeriodReport(context.Background(), Period{Year: 2024, Month: 3})
	require.NoError(t, err)
	require.Len(t, lines, 2)

	assert.Equal(t, "Groceries", lines[0].ExpenseType)
	assert.True(t, dec("50").Equal(lines[0].Total))
	assert.Equal(t, int64(1), lines[0].TransactionCount)
	assert.Equal(t, models.KindCreditCard, lines[0].PaymentMethodKind)

	u := lines[1]
	assert.True(t, u.Untracked)
	assert.Equal(t, "Untracked Expenses", u.ExpenseType)
	assert.Equal(t, "Card A - Untracked", u.ExpenseName)
	assert.Equal(t, "Card A", u.PaymentMethod)
	assert.Equal(t, models.KindCreditCard, u.PaymentMethodKind)
	assert.True(t, dec("30").Equal(u.Total), u.Total.String())
	assert.Equal(t, int64(1), u.TransactionCount)
}

func TestBuildPeriodReport_PaymentBelowItemizedEmitsNothing(t *testing.T) {
	s, _ := newTestServices(t)
	mustPaymentMethod(t, s, "Card A", models.KindCreditCard)
	mustExpense(t, s, "2024-03-10", "Groceries", "Market", "Card A", "50")
	mustCardPayment(t, s, "2024-03-28", "Card A", "40")

	lines, err := s.Reports.BuildPeriodReport(context.Background(), Period{Year: 2024, Month: 3})
	require.NoError(t, err)
	_, untracked := splitLines(lines)
	assert.Empty(t, untracked)
	assert.Len(t, lines, 1)
}

func TestBuildPeriodReport_EmptyPeriod(t *testing.T) {
	s, _ := newTestServices(t)
	lines, err := s.Reports.BuildPeriodReport(context.Background(), Period{Year: 1999, Month: 1})
	require.NoError(t, err)
	assert.NotNil(t, lines)
	assert.Empty(t, lines)
}

func TestBuildPeriodReport_GroupingAndOrdering(t *testing.T) {
	s, _ := newTestServices(t)
	mustPaymentMethod(t, s, "Checking", models.KindBankAccount)
	mustPaymentMethod(t, s, "Visa", models.KindCreditCard)

	mustExpense(t, s, "2024-01-03", "Utilities", "Water", "Checking", "30")
	mustExpense(t, s, "2024-06-03", "Utilities", "Water", "Checking", "32.25")
	mustExpense(t, s, "2024-02-03", "Utilities", "Water", "Visa", "90")
	mustExpense(t, s, "2024-02-10", "Groceries", "Market", "Visa", "15.10")
	mustExpense(t, s, "2024-02-11", "Groceries", "Bakery", "Visa", "4.90")
	mustExpense(t, s, "2023-12-31", "Groceries", "Market", "Visa", "999")

	lines, err := s.Reports.BuildPeriodReport(context.Background(), Period{Year: 2024})
	require.NoError(t, err)
	require.Len(t, lines, 4)

	got := make([][3]string, len(lines))
	for i, l := range lines {
		got[i] = [3]string{l.ExpenseType, l.ExpenseName, l.PaymentMethod}
	}
	assert.Equal(t, [][3]string{
		{"Groceries", "Bakery", "Visa"},
		{"Groceries", "Market", "Visa"},
		{"Utilities", "Water", "Visa"},
		{"Utilities", "Water", "Checking"},
	}, got)
	assert.True(t, dec("62.25").Equal(lines[3].Total), lines[3].Total.String())
	assert.Equal(t, int64(2), lines[3].TransactionCount)
}

func TestBuildPeriodReport_TotalsIdentity(t *testing.T) {
	s, _ := newTestServices(t)
	ctx := context.Background()
	mustPaymentMethod(t, s, "Checking", models.KindBankAccount)
	mustPaymentMethod(t, s, "Visa", models.KindCreditCard)
	mustPaymentMethod(t, s, "Amex", models.KindCreditCard)

	mustExpense(t, s, "2024-05-01", "Utilities", "Water", "Checking", "41.10")
	mustExpense(t, s, "2024-05-02", "Dining", "Pizza", "Visa", "22.35")
	mustExpense(t, s, "2024-05-03", "Dining", "Pizza", "Visa", "18.40")
	mustExpense(t, s, "2024-05-04", "Travel", "Train", "Amex", "75")
	mustCardPayment(t, s, "2024-05-25", "Visa", "100")
	mustCardPayment(t, s, "2024-05-26", "Amex", "60")
	// 没有对应支付方式的卡，差额就是全部还款
	mustCardPayment(t, s, "2024-05-27", "Store Card", "12.34")

	period := Period{Year: 2024, Month: 5}
	lines, err := s.Reports.BuildPeriodReport(ctx, period)
	require.NoError(t, err)
	ordinary, untracked := splitLines(lines)

	expenses, err := s.Ledger.ListExpenses(ctx, ExpenseFilter{Year: 2024, Month: 5})
	require.NoError(t, err)
	ledgerTotal := decimal.Zero
	for _, e := range expenses {
		ledgerTotal = ledgerTotal.Add(e.Amount)
	}
	ordinaryTotal := decimal.Zero
	for _, l := range ordinary {
		ordinaryTotal = ordinaryTotal.Add(l.Total)
	}
	assert.True(t, ledgerTotal.Equal(ordinaryTotal), "%s != %s", ledgerTotal, ordinaryTotal)

	require.Len(t, untracked, 2)
	assert.Equal(t, "Store Card", untracked[0].PaymentMethod)
	assert.True(t, dec("12.34").Equal(untracked[0].Total))
	assert.Equal(t, "Visa", untracked[1].PaymentMethod)
	assert.True(t, dec("59.25").Equal(untracked[1].Total), untracked[1].Total.String())
	for _, u := range untracked {
		assert.True(t, u.Total.IsPositive())
	}

	rep, err := s.Reports.Summarize(ctx, period)
	require.NoError(t, err)
	assert.True(t, ordinaryTotal.Add(dec("71.59")).Equal(rep.Total), rep.Total.String())
	assert.Equal(t, int64(6), rep.TransactionCount)
}

func TestUntrackedLines(t *testing.T) {
	payments := []cardTotal{
		{Name: "Zeta", Total: dec("10")},
		{Name: "Alpha", Total: dec("25.5")},
		{Name: "Even", Total: dec("40")},
	}
	itemized := []cardTotal{
		{Name: "Alpha", Total: dec("20")},
		{Name: "Even", Total: dec("40")},
		{Name: "Unpaid", Total: dec("99")},
	}

	lines := untrackedLines(payments, itemized)
	require.Len(t, lines, 2)
	assert.Equal(t, "Alpha", lines[0].PaymentMethod)
	assert.True(t, dec("5.5").Equal(lines[0].Total))
	assert.Equal(t, "Zeta", lines[1].PaymentMethod)
	assert.True(t, dec("10").Equal(lines[1].Total))
}

func TestBuildPeriodReport_InvalidPeriod(t *testing.T) {
	s, _ := newTestServices(t)
	_, err := s.Reports.BuildPeriodReport(context.Background(), Period{Year: 2024, Month: 13})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}
