package setu

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financial-guardian/api/models"
)

func TestParse(t *testing.T) {
	raw := json.RawMessage(`{
		"account": {
			"linkedAccRef": "ref-1",
			"maskedAccNumber": "XXXXXX1234",
			"type": "deposit",
			"transactions": {
				"startDate": "2026-08-01",
				"endDate": "2026-08-31",
				"transaction": [
					{
						"txnId": "M1",
						"type": "DEBIT",
						"mode": "UPI",
						"amount": "450.50",
						"currentBalance": "82000.00",
						"transactionTimestamp": "2026-08-05T13:45:00+05:30",
						"valueDate": "2026-08-05",
						"narration": "UPI-SWIGGY ORDER",
						"reference": "REF001"
					},
					{
						"txnId": "M2",
						"type": "credit",
						"mode": "NEFT",
						"amount": "85000",
						"currentBalance": "167000.00",
						"transactionTimestamp": "2026-08-01T09:00:00+05:30",
						"valueDate": "",
						"narration": "NEFT SALARY AUG",
						"reference": "REF002"
					},
					{
						"txnId": "M3",
						"type": "HOLD",
						"mode": "CARD",
						"amount": "100",
						"currentBalance": "0",
						"transactionTimestamp": "2026-08-02T09:00:00+05:30",
						"valueDate": "2026-08-02",
						"narration": "AUTH HOLD",
						"reference": "REF003"
					}
				]
			}
		}
	}`)

	txns, err := Parse(raw)
	require.NoError(t, err)
	require.Len(t, txns, 2, "non CREDIT/DEBIT entries must be skipped")

	swiggy := txns[0]
	assert.Equal(t, "M1", swiggy.SetuTxnID)
	assert.Equal(t, models.TxnTypeDebit, swiggy.Type)
	assert.Equal(t, "2026-08-05", swiggy.Date)
	assert.Equal(t, "Food & Dining", swiggy.Category)
	assert.True(t, swiggy.Amount.Equal(decimal.RequireFromString("450.50")))
	assert.Equal(t, models.SourceSetu, swiggy.Source)

	salary := txns[1]
	assert.Equal(t, models.TxnTypeCredit, salary.Type, "lowercase type must be normalized")
	// valueDate missing: fall back to the timestamp's date part.
	assert.Equal(t, "2026-08-01", salary.Date)
	assert.Equal(t, "Salary", salary.Category)
}

func TestParseRejectsBadPayloads(t *testing.T) {
	_, err := Parse(json.RawMessage(`not json`))
	assert.Error(t, err)

	_, err = Parse(json.RawMessage(`{"account": {"transactions": {"transaction": []}}}`))
	assert.Error(t, err)

	// Transactions present but none usable.
	_, err = Parse(json.RawMessage(`{"account": {"transactions": {"transaction": [
		{"txnId": "X", "type": "HOLD", "amount": "1", "valueDate": "2026-08-01"}
	]}}}`))
	assert.Error(t, err)
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		narration string
		txnType   string
		want      string
	}{
		{"UPI-ZOMATO-BANGALORE", models.TxnTypeDebit, "Food & Dining"},
		{"BLINKIT GROCERIES", models.TxnTypeDebit, "Groceries"},
		{"UBER RIDES JULY", models.TxnTypeDebit, "Commute"},
		{"INDIGO 6E-345 BLR-DEL", models.TxnTypeDebit, "Travel"},
		{"AMAZON PAY ORDER", models.TxnTypeDebit, "Shopping"},
		{"NETFLIX SUBSCRIPTION", models.TxnTypeDebit, "Entertainment"},
		{"APOLLO PHARMACY", models.TxnTypeDebit, "Health"},
		{"AIRTEL BROADBAND BILL", models.TxnTypeDebit, "Utilities"},
		{"NOBROKER RENT PAYMENT", models.TxnTypeDebit, "Rent"},
		{"HDFC HOME LOAN EMI", models.TxnTypeDebit, "EMI"},
		{"POS 1234 MISC STORE", models.TxnTypeDebit, "Others"},
		{"ACME CORP SALARY", models.TxnTypeCredit, "Salary"},
		{"UPWORK PAYOUT", models.TxnTypeCredit, "Freelance"},
		{"SB INT.PD UPTO JUN", models.TxnTypeCredit, "Interest"},
		{"FLIPKART REFUND", models.TxnTypeCredit, "Refund"},
		{"GIFT FROM DAD", models.TxnTypeCredit, "Other Income"},
	}
	for _, tt := range tests {
		t.Run(tt.narration, func(t *testing.T) {
			assert.Equal(t, tt.want, Categorize(tt.narration, tt.txnType))
		})
	}
}
