package models

import "github.com/shopspring/decimal"

type Loan struct {
	ID               int64           `json:"id"`
	UserID           int64           `json:"user_id"`
	Name             string          `json:"name"`
	LoanType         string          `json:"loan_type"`
	PrincipalAmount  decimal.Decimal `json:"principal_amount"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	EMIAmount        decimal.Decimal `json:"emi_amount"`
	InterestRate     float64         `json:"interest_rate"`
	NextDueDate      string          `json:"next_due_date,omitempty"`
}

type CreditCard struct {
	ID             int64           `json:"id"`
	UserID         int64           `json:"user_id"`
	CardName       string          `json:"card_name"`
	CreditLimit    decimal.Decimal `json:"credit_limit"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	DueDate        string          `json:"due_date,omitempty"`
}

type LiabilitiesReport struct {
	Loans              []Loan          `json:"loans"`
	CreditCards        []CreditCard    `json:"credit_cards"`
	TotalLoanBalance   decimal.Decimal `json:"total_loan_balance"`
	TotalCreditCardDue decimal.Decimal `json:"total_credit_card_due"`
	TotalLiabilities   decimal.Decimal `json:"total_liabilities"`
}
