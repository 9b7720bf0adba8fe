package service

import (
	"context"
	"testing"

	"spending/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_CreatePaymentMethod(t *testing.T) {
	s, _ := newTestServices(t)
	ctx := context.Background()

	pm, err := s.Catalog.CreatePaymentMethod(ctx, PaymentMethodInput{Name: " Visa ", Kind: models.KindCreditCard})
	require.NoError(t, err)
	assert.NotZero(t, pm.ID)
	assert.Equal(t, "Visa", pm.Name)

	_, err = s.Catalog.CreatePaymentMethod(ctx, PaymentMethodInput{Name: "Visa", Kind: models.KindBankAccount})
	var conflict *ConflictError
	assert.ErrorAs(t, err, &conflict)

	_, err = s.Catalog.CreatePaymentMethod(ctx, PaymentMethodInput{Name: "Cash", Kind: "wallet"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "kind", verr.Field)

	methods, err := s.Catalog.ListPaymentMethods(ctx)
	require.NoError(t, err)
	require.Len(t, methods, 1)
}

func TestCatalog_CreateExpenseTypeAndName(t *testing.T) {
	s, _ := newTestServices(t)
	ctx := context.Background()

	_, err := s.Catalog.CreateExpenseType(ctx, "Pets")
	require.NoError(t, err)
	_, err = s.Catalog.CreateExpenseType(ctx, "Pets")
	var conflict *ConflictError
	assert.ErrorAs(t, err, &conflict)

	_, err = s.Catalog.CreateExpenseName(ctx, "Vet")
	require.NoError(t, err)
	_, err = s.Catalog.CreateExpenseName(ctx, "")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	types, err := s.Catalog.ListExpenseTypes(ctx)
	require.NoError(t, err)
	assert.Len(t, types, 1)
	names, err := s.Catalog.ListExpenseNames(ctx)
	require.NoError(t, err)
	assert.Len(t, names, 1)
}

func TestCatalog_DeleteReferencedPaymentMethodConflicts(t *testing.T) {
	s, _ := newTestServices(t)
	ctx := context.Background()

	pm := mustPaymentMethod(t, s, "Visa", models.KindCreditCard)
	mustExpense(t, s, "2024-03-01", "Groceries", "Market", "Visa", "12.50")
	mustExpense(t, s, "2024-03-02", "Groceries", "Market", "Visa", "7.50")

	err := s.Catalog.DeletePaymentMethod(ctx, pm.ID)
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, int64(2), conflict.Count)
	assert.Equal(t, int64(1), countRows(t, s.DB, &models.PaymentMethod{}, "id = ?", pm.ID))
}

func TestCatalog_DeletePaymentMethod(t *testing.T) {
	s, _ := newTestServices(t)
	ctx := context.Background()

	pm := mustPaymentMethod(t, s, "Old Bank", models.KindBankAccount)
	require.NoError(t, s.Catalog.DeletePaymentMethod(ctx, pm.ID))
	assert.Equal(t, int64(0), countRows(t, s.DB, &models.PaymentMethod{}, ""))

	var nf *NotFoundError
	assert.ErrorAs(t, s.Catalog.DeletePaymentMethod(ctx, pm.ID), &nf)
}

func TestCatalog_UpdatePaymentMethodReportsOrphanedPayments(t *testing.T) {
	s, _ := newTestServices(t)
	ctx := context.Background()

	pm := mustPaymentMethod(t, s, "Visa", models.KindCreditCard)
	mustPaymentMethod(t, s, "Amex", models.KindCreditCard)
	mustCardPayment(t, s, "2024-03-28", "Visa", "80")
	mustCardPayment(t, s, "2024-04-28", "Visa", "60")

	res, err := s.Catalog.UpdatePaymentMethod(ctx, pm.ID, PaymentMethodInput{Name: "Visa Gold", Kind: models.KindCreditCard})
	require.NoError(t, err)
	assert.Equal(t, "Visa Gold", res.PaymentMethod.Name)
	assert.Equal(t, int64(2), res.OrphanedPayments)
	// 还款记录不会被级联改名
	assert.Equal(t, int64(2), countRows(t, s.DB, &models.CreditCardPayment{}, "credit_card_name = ?", "Visa"))

	res, err = s.Catalog.UpdatePaymentMethod(ctx, pm.ID, PaymentMethodInput{Name: "Visa Gold", Kind: models.KindBankAccount})
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.OrphanedPayments)
	assert.Equal(t, models.KindBankAccount, res.PaymentMethod.Kind)

	_, err = s.Catalog.UpdatePaymentMethod(ctx, pm.ID, PaymentMethodInput{Name: "Amex", Kind: models.KindCreditCard})
	var conflict *ConflictError
	assert.ErrorAs(t, err, &conflict)

	_, err = s.Catalog.UpdatePaymentMethod(ctx, 999, PaymentMethodInput{Name: "X", Kind: models.KindCreditCard})
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestCatalog_ListCreditCardNames(t *testing.T) {
	s, _ := newTestServices(t)

	mustPaymentMethod(t, s, "Visa", models.KindCreditCard)
	mustPaymentMethod(t, s, "Checking", models.KindBankAccount)
	mustCardPayment(t, s, "2024-03-28", "Amex", "80")
	mustCardPayment(t, s, "2024-03-29", "Visa", "10")

	names, err := s.Catalog.ListCreditCardNames(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Amex", "Visa"}, names)
}
