package db

import (
	"database/sql"

	"github.com/shopspring/decimal"

	"financial-guardian/api/models"
)

// GetUserBudgets returns budgets joined with their category names.
// Pass month as "" to get budgets for all months.
func GetUserBudgets(userID int64, month string) ([]models.Budget, error) {
	query := `
		SELECT b.id, b.user_id, b.category_id, c.name, COALESCE(c.color, ''), b.amount_limit, b.month
		FROM budgets b
		JOIN categories c ON b.category_id = c.id
		WHERE b.user_id = ?`
	args := []any{userID}
	if month != "" {
		query += ` AND b.month = ?`
		args = append(args, month)
	}

	rows, err := DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.Budget{}
	for rows.Next() {
		var b models.Budget
		if err := rows.Scan(&b.ID, &b.UserID, &b.CategoryID, &b.CategoryName, &b.CategoryColor, &b.AmountLimit, &b.Month); err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	return items, rows.Err()
}

// SaveBudget upserts the budget for (user, category, month) and returns its ID.
func SaveBudget(userID, categoryID int64, amount decimal.Decimal, month string) (int64, error) {
	var id int64
	err := DB.QueryRow(
		`SELECT id FROM budgets WHERE user_id = ? AND category_id = ? AND month = ?`,
		userID, categoryID, month,
	).Scan(&id)
	if err == nil {
		_, err = DB.Exec(`UPDATE budgets SET amount_limit = ? WHERE id = ?`, amount, id)
		return id, err
	}
	if err != sql.ErrNoRows {
		return 0, err
	}

	res, err := DB.Exec(
		`INSERT INTO budgets (user_id, category_id, amount_limit, month) VALUES (?, ?, ?, ?)`,
		userID, categoryID, amount, month,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// DeleteBudget removes the budget and reports whether one existed.
func DeleteBudget(userID, categoryID int64, month string) (bool, error) {
	res, err := DB.Exec(
		`DELETE FROM budgets WHERE user_id = ? AND category_id = ? AND month = ?`,
		userID, categoryID, month,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
