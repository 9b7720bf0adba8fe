package api

import (
	"net/http"
	"testing"

	"spending/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardPaymentHandler_CRUD(t *testing.T) {
	r := ledgerRouter(setupTestServices(t))

	w := doJSON(r, "POST", "/api/credit-card-payments", `{"date":"2024-03-28","credit_card_name":"Visa","amount":80,"notes":"statement"}`)
	require.Equal(t, 200, w.Code, w.Body.String())
	var p models.CreditCardPayment
	decode(t, w, &p)
	assert.Equal(t, "80.00", p.Amount.StringFixed(2))

	require.Equal(t, 200, doJSON(r, "POST", "/api/credit-card-payments", `{"date":"2024-04-28","credit_card_name":"Amex","amount":15}`).Code)

	var rows []models.CreditCardPayment
	decode(t, doJSON(r, "GET", "/api/credit-card-payments?credit_card_name=Visa", ""), &rows)
	require.Len(t, rows, 1)
	decode(t, doJSON(r, "GET", "/api/credit-card-payments?year=2024&month=4", ""), &rows)
	require.Len(t, rows, 1)
	assert.Equal(t, "Amex", rows[0].CreditCardName)

	w = doJSON(r, "PUT", "/api/credit-card-payments/"+itoa(p.ID), `{"date":"2024-03-29","credit_card_name":"Visa","amount":90}`)
	require.Equal(t, 200, w.Code, w.Body.String())
	decode(t, doJSON(r, "GET", "/api/credit-card-payments/"+itoa(p.ID), ""), &p)
	assert.Equal(t, "2024-03-29", p.Date)

	w = doJSON(r, "POST", "/api/credit-card-payments", `{"date":"2024-03-28","credit_card_name":"  ","amount":1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, 200, doJSON(r, "DELETE", "/api/credit-card-payments/"+itoa(p.ID), "").Code)
	assert.Equal(t, http.StatusNotFound, doJSON(r, "DELETE", "/api/credit-card-payments/"+itoa(p.ID), "").Code)
}
