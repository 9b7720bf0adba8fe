package api

import (
	"context"
	"net/http"
	"testing"

	"spending/models"
	"spending/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ledgerRouter(svc *service.Services) *gin.Engine {
	r := newTestEngine()
	eh := NewExpenseHandler(svc.Ledger)
	r.GET("/api/expenses", eh.List)
	r.GET("/api/expenses/:id", eh.Get)
	r.POST("/api/expenses", eh.Create)
	r.PUT("/api/expenses/:id", eh.Update)
	r.DELETE("/api/expenses/:id", eh.Delete)

	ph := NewCardPaymentHandler(svc.Ledger)
	r.GET("/api/credit-card-payments", ph.List)
	r.GET("/api/credit-card-payments/:id", ph.Get)
	r.POST("/api/credit-card-payments", ph.Create)
	r.PUT("/api/credit-card-payments/:id", ph.Update)
	r.DELETE("/api/credit-card-payments/:id", ph.Delete)

	r.POST("/api/payment-methods", NewCatalogHandler(svc.Catalog).CreatePaymentMethod)
	return r
}

func TestExpenseHandler_Create(t *testing.T) {
	svc := setupTestServices(t)
	r := ledgerRouter(svc)
	require.Equal(t, 200, doJSON(r, "POST", "/api/payment-methods", `{"name":"Bank Account","kind":"bank_account"}`).Code)

	body := `{"date":"2024-03-15","expense_type":"Utilities","expense_name":"Water","payment_method":"Bank Account","amount":42.505,"description":"March bill"}`
	w := doJSON(r, "POST", "/api/expenses", body)
	require.Equal(t, 200, w.Code, w.Body.String())

	var e models.Expense
	resp := decode(t, w, &e)
	assert.Equal(t, "created", resp.Message)
	assert.Equal(t, "42.51", e.Amount.StringFixed(2))
	require.NotNil(t, e.ExpenseType)
	assert.Equal(t, "Utilities", e.ExpenseType.Name)
	require.NotNil(t, e.PaymentMethod)
	assert.Equal(t, "Bank Account", e.PaymentMethod.Name)
}

func TestExpenseHandler_Create_UnknownPaymentMethod(t *testing.T) {
	svc := setupTestServices(t)
	r := ledgerRouter(svc)

	body := `{"date":"2024-03-15","expense_type":"Utilities","expense_name":"Water","payment_method":"Amex","amount":10}`
	w := doJSON(r, "POST", "/api/expenses", body)
	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decode(t, w, nil)
	assert.Contains(t, resp.Message, "Amex")
	assert.Contains(t, resp.Message, "Payment Methods")

	// 支付方式不存在时不会生成任何目录行
	types, err := svc.Catalog.ListExpenseTypes(context.Background())
	require.NoError(t, err)
	assert.Empty(t, types)
}

func TestExpenseHandler_Create_Invalid(t *testing.T) {
	r := ledgerRouter(setupTestServices(t))

	w := doJSON(r, "POST", "/api/expenses", `{"date":"2024-13-01","expense_type":"A","expense_name":"B","payment_method":"C","amount":1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"field":"date"}`, string(decode(t, w, nil).Data))

	w = doJSON(r, "POST", "/api/expenses", `{"date":"2024-03-01","expense_type":"A","expense_name":"B","payment_method":"C","amount":-1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"field":"amount"}`, string(decode(t, w, nil).Data))

	w = doJSON(r, "POST", "/api/expenses", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExpenseHandler_ListUpdateDelete(t *testing.T) {
	svc := setupTestServices(t)
	r := ledgerRouter(svc)
	require.Equal(t, 200, doJSON(r, "POST", "/api/payment-methods", `{"name":"Visa","kind":"credit_card"}`).Code)

	for _, body := range []string{
		`{"date":"2024-02-28","expense_type":"Food","expense_name":"Market","payment_method":"Visa","amount":10}`,
		`{"date":"2024-03-01","expense_type":"Food","expense_name":"Market","payment_method":"Visa","amount":20}`,
		`{"date":"2024-03-31","expense_type":"Home","expense_name":"Rent","payment_method":"Visa","amount":30}`,
	} {
		require.Equal(t, 200, doJSON(r, "POST", "/api/expenses", body).Code)
	}

	var rows []models.Expense
	decode(t, doJSON(r, "GET", "/api/expenses?year=2024&month=3", ""), &rows)
	require.Len(t, rows, 2)
	assert.Equal(t, "2024-03-31", rows[0].Date)

	decode(t, doJSON(r, "GET", "/api/expenses?year=2024&month=3&expense_type=Food", ""), &rows)
	require.Len(t, rows, 1)
	id := rows[0].ID

	w := doJSON(r, "GET", "/api/expenses?month=3", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, "PUT", "/api/expenses/"+itoa(id), `{"date":"2024-03-02","expense_type":"Food","expense_name":"Bakery","payment_method":"Visa","amount":21}`)
	require.Equal(t, 200, w.Code, w.Body.String())
	var updated models.Expense
	decode(t, w, &updated)
	assert.Equal(t, "2024-03-02", updated.Date)
	require.NotNil(t, updated.ExpenseName)
	assert.Equal(t, "Bakery", updated.ExpenseName.Name)

	assert.Equal(t, 200, doJSON(r, "DELETE", "/api/expenses/"+itoa(id), "").Code)
	assert.Equal(t, http.StatusNotFound, doJSON(r, "GET", "/api/expenses/"+itoa(id), "").Code)
	assert.Equal(t, http.StatusNotFound, doJSON(r, "DELETE", "/api/expenses/"+itoa(id), "").Code)
	assert.Equal(t, http.StatusNotFound, doJSON(r, "PUT", "/api/expenses/9999", `{"date":"2024-03-02","expense_type":"Food","expense_name":"Bakery","payment_method":"Visa","amount":1}`).Code)
}

func TestExpenseHandler_List_StorageFailure(t *testing.T) {
	svc, mock := setupMockServices(t)
	mock.ExpectQuery("SELECT .* FROM `expenses`").WillReturnError(assert.AnError)

	w := doJSON(ledgerRouter(svc), "GET", "/api/expenses", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
