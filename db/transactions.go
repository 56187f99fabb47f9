package db

import (
	"database/sql"

	"github.com/shopspring/decimal"

	"financial-guardian/api/models"
)

// TxnFilter narrows GetUserTransactions. Zero values mean no filtering.
type TxnFilter struct {
	StartDate string
	EndDate   string
	Limit     int
}

func GetUserTransactions(userID int64, filter TxnFilter) ([]models.Transaction, error) {
	query := `
		SELECT id, user_id, COALESCE(category_id, 0), transaction_date, type, amount,
		       COALESCE(category, ''), COALESCE(narration, ''), COALESCE(balance, 0),
		       COALESCE(mode, ''), COALESCE(reference, ''), COALESCE(setu_txn_id, ''),
		       COALESCE(source, 'SETU'), created_at
		FROM transactions
		WHERE user_id = ?`
	args := []any{userID}

	if filter.StartDate != "" {
		query += ` AND transaction_date >= ?`
		args = append(args, filter.StartDate)
	}
	if filter.EndDate != "" {
		query += ` AND transaction_date <= ?`
		args = append(args, filter.EndDate)
	}
	query += ` ORDER BY transaction_date DESC, id DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.Transaction{}
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(
			&t.ID, &t.UserID, &t.CategoryID, &t.Date, &t.Type, &t.Amount,
			&t.Category, &t.Narration, &t.Balance,
			&t.Mode, &t.Reference, &t.SetuTxnID,
			&t.Source, &t.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

// AddManualTransaction records a manual entry. txnType is DEBIT or CREDIT;
// the matching expense/income category is created on first use.
func AddManualTransaction(userID int64, amount decimal.Decimal, categoryName, txnType, date, narration string) (int64, error) {
	catType := "expense"
	if txnType == models.TxnTypeCredit {
		catType = "income"
	}
	categoryID, err := GetOrCreateCategory(userID, categoryName, catType)
	if err != nil {
		return 0, err
	}

	res, err := DB.Exec(`
		INSERT INTO transactions (user_id, category_id, transaction_date, type, amount, category, narration, source)
		VALUES (?, ?, ?, ?, ?, ?, ?, 'MANUAL')`,
		userID, categoryID, date, txnType, amount, categoryName, narration,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// StoreTransactions bulk-inserts synced transactions and returns the count
// actually stored. Rows whose setu_txn_id was already seen for the user are
// skipped, so replaying a payload is safe.
func StoreTransactions(userID int64, txns []models.Transaction) (int, error) {
	// Resolve categories before opening the write transaction.
	categoryIDs := make(map[string]int64)
	for _, t := range txns {
		catType := "expense"
		if t.Type == models.TxnTypeCredit {
			catType = "income"
		}
		key := t.Category + "|" + catType
		if _, ok := categoryIDs[key]; ok {
			continue
		}
		id, err := GetOrCreateCategory(userID, t.Category, catType)
		if err != nil {
			return 0, err
		}
		categoryIDs[key] = id
	}

	tx, err := DB.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO transactions (user_id, category_id, transaction_date, type, amount, category, narration, balance, mode, reference, setu_txn_id, source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	count := 0
	for _, t := range txns {
		catType := "expense"
		if t.Type == models.TxnTypeCredit {
			catType = "income"
		}
		source := t.Source
		if source == "" {
			source = models.SourceSetu
		}
		res, err := stmt.Exec(
			userID, categoryIDs[t.Category+"|"+catType], t.Date, t.Type, t.Amount, t.Category,
			t.Narration, t.Balance, t.Mode, t.Reference, t.SetuTxnID, source,
		)
		if err != nil {
			return count, err
		}
		if n, _ := res.RowsAffected(); n > 0 {
			count++
		}
	}
	return count, tx.Commit()
}

// CategorySpendForMonth sums DEBIT amounts for a category in a YYYY-MM month.
func CategorySpendForMonth(userID, categoryID int64, month string) (decimal.Decimal, error) {
	var spent decimal.Decimal
	err := DB.QueryRow(`
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = ? AND category_id = ?
		AND strftime('%Y-%m', transaction_date) = ?
		AND type = 'DEBIT'`,
		userID, categoryID, month,
	).Scan(&spent)
	if err != nil {
		return decimal.Zero, err
	}
	return spent, nil
}

// LatestTransactionDate returns the newest transaction_date for the user,
// or "" when the user has no transactions.
func LatestTransactionDate(userID int64) (string, error) {
	var date string
	err := DB.QueryRow(
		`SELECT transaction_date FROM transactions WHERE user_id = ? ORDER BY transaction_date DESC LIMIT 1`,
		userID,
	).Scan(&date)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return date, nil
}

// StoreRawFinancialData keeps the raw Setu payload for audit and reprocessing.
func StoreRawFinancialData(userID int64, rawJSON []byte) error {
	_, err := DB.Exec(
		`INSERT INTO financial_data (user_id, raw_data_json) VALUES (?, ?)`,
		userID, string(rawJSON),
	)
	return err
}
