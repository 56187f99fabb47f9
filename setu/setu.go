// Package setu parses Setu account-aggregator FI payloads into transactions.
package setu

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"financial-guardian/api/models"
)

// Payload mirrors the deposit-account FI data block returned by the Setu
// data-session API.
type Payload struct {
	Account struct {
		LinkedAccRef string `json:"linkedAccRef"`
		MaskedAccNo  string `json:"maskedAccNumber"`
		Type         string `json:"type"`
		Transactions struct {
			StartDate   string        `json:"startDate"`
			EndDate     string        `json:"endDate"`
			Transaction []Transaction `json:"transaction"`
		} `json:"transactions"`
	} `json:"account"`
}

type Transaction struct {
	TxnID            string          `json:"txnId"`
	Type             string          `json:"type"` // CREDIT | DEBIT
	Mode             string          `json:"mode"`
	Amount           decimal.Decimal `json:"amount"`
	CurrentBalance   decimal.Decimal `json:"currentBalance"`
	TransactionDate  string          `json:"transactionTimestamp"`
	ValueDate        string          `json:"valueDate"`
	Narration        string          `json:"narration"`
	Reference        string          `json:"reference"`
}

// Parse decodes a raw Setu payload and maps it to stored transactions with
// categories inferred from the narration.
func Parse(raw json.RawMessage) ([]models.Transaction, error) {
	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("invalid Setu payload: %w", err)
	}

	setuTxns := p.Account.Transactions.Transaction
	if len(setuTxns) == 0 {
		return nil, fmt.Errorf("Setu payload contains no transactions")
	}

	txns := make([]models.Transaction, 0, len(setuTxns))
	for _, st := range setuTxns {
		txnType := strings.ToUpper(st.Type)
		if txnType != models.TxnTypeCredit && txnType != models.TxnTypeDebit {
			continue
		}

		date := st.ValueDate
		if date == "" && len(st.TransactionDate) >= 10 {
			date = st.TransactionDate[:10]
		}
		if date == "" {
			continue
		}

		txns = append(txns, models.Transaction{
			Date:      date,
			Type:      txnType,
			Amount:    st.Amount,
			Category:  Categorize(st.Narration, txnType),
			Narration: st.Narration,
			Balance:   st.CurrentBalance,
			Mode:      st.Mode,
			Reference: st.Reference,
			SetuTxnID: st.TxnID,
			Source:    models.SourceSetu,
		})
	}

	if len(txns) == 0 {
		return nil, fmt.Errorf("Setu payload contains no usable transactions")
	}
	return txns, nil
}
