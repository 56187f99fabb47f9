package db

import (
	"github.com/shopspring/decimal"

	"financial-guardian/api/models"
)

func GetUserLoans(userID int64) ([]models.Loan, error) {
	rows, err := DB.Query(
		`SELECT id, user_id, name, loan_type, principal_amount, remaining_balance, emi_amount, interest_rate, COALESCE(next_due_date, '')
		 FROM loans WHERE user_id = ?`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.Loan{}
	for rows.Next() {
		var l models.Loan
		if err := rows.Scan(&l.ID, &l.UserID, &l.Name, &l.LoanType, &l.PrincipalAmount, &l.RemainingBalance, &l.EMIAmount, &l.InterestRate, &l.NextDueDate); err != nil {
			return nil, err
		}
		items = append(items, l)
	}
	return items, rows.Err()
}

func CreateLoan(l models.Loan) (int64, error) {
	var due any
	if l.NextDueDate != "" {
		due = l.NextDueDate
	}
	res, err := DB.Exec(
		`INSERT INTO loans (user_id, name, loan_type, principal_amount, remaining_balance, emi_amount, interest_rate, next_due_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		l.UserID, l.Name, l.LoanType, l.PrincipalAmount, l.RemainingBalance, l.EMIAmount, l.InterestRate, due,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func GetUserCreditCards(userID int64) ([]models.CreditCard, error) {
	rows, err := DB.Query(
		`SELECT id, user_id, card_name, credit_limit, current_balance, COALESCE(due_date, '')
		 FROM credit_cards WHERE user_id = ?`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.CreditCard{}
	for rows.Next() {
		var cc models.CreditCard
		if err := rows.Scan(&cc.ID, &cc.UserID, &cc.CardName, &cc.CreditLimit, &cc.CurrentBalance, &cc.DueDate); err != nil {
			return nil, err
		}
		items = append(items, cc)
	}
	return items, rows.Err()
}

func CreateCreditCard(cc models.CreditCard) (int64, error) {
	var due any
	if cc.DueDate != "" {
		due = cc.DueDate
	}
	res, err := DB.Exec(
		`INSERT INTO credit_cards (user_id, card_name, credit_limit, current_balance, due_date)
		 VALUES (?, ?, ?, ?, ?)`,
		cc.UserID, cc.CardName, cc.CreditLimit, cc.CurrentBalance, due,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// LiabilityTotals sums outstanding loan balances and credit card dues.
func LiabilityTotals(loans []models.Loan, cards []models.CreditCard) (loanTotal, cardTotal decimal.Decimal) {
	for _, l := range loans {
		loanTotal = loanTotal.Add(l.RemainingBalance)
	}
	for _, cc := range cards {
		cardTotal = cardTotal.Add(cc.CurrentBalance)
	}
	return loanTotal, cardTotal
}
