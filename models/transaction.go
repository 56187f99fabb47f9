package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types as stored in the transactions table.
const (
	TxnTypeDebit  = "DEBIT"
	TxnTypeCredit = "CREDIT"
)

// Transaction sources.
const (
	SourceSetu   = "SETU"
	SourceManual = "MANUAL"
)

type Transaction struct {
	ID         int64           `json:"id"`
	UserID     int64           `json:"user_id"`
	CategoryID int64           `json:"category_id,omitempty"`
	Date       string          `json:"transaction_date"`
	Type       string          `json:"type"`
	Amount     decimal.Decimal `json:"amount"`
	Category   string          `json:"category"`
	Narration  string          `json:"narration"`
	Balance    decimal.Decimal `json:"balance,omitempty"`
	Mode       string          `json:"mode,omitempty"`
	Reference  string          `json:"reference,omitempty"`
	SetuTxnID  string          `json:"setu_txn_id,omitempty"`
	Source     string          `json:"source"`
	CreatedAt  time.Time       `json:"created_at"`
}

type ManualTransactionRequest struct {
	UserID    int64           `json:"user_id" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Category  string          `json:"category" binding:"required"`
	Narration string          `json:"narration"`
	Date      string          `json:"date"`
}

type Category struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Color  string `json:"color,omitempty"`
	Icon   string `json:"icon,omitempty"`
}
