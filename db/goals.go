package db

import (
	"database/sql"

	"github.com/shopspring/decimal"

	"financial-guardian/api/models"
)

func GetUserGoals(userID int64) ([]models.Goal, error) {
	rows, err := DB.Query(
		`SELECT id, user_id, name, target_amount, current_amount, COALESCE(target_date, '')
		 FROM goals WHERE user_id = ?`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.Goal{}
	for rows.Next() {
		var g models.Goal
		if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.CurrentAmount, &g.TargetDate); err != nil {
			return nil, err
		}
		items = append(items, g)
	}
	return items, rows.Err()
}

// GetGoal returns the goal if it belongs to the user, or nil.
func GetGoal(userID, goalID int64) (*models.Goal, error) {
	g := &models.Goal{}
	err := DB.QueryRow(
		`SELECT id, user_id, name, target_amount, current_amount, COALESCE(target_date, '')
		 FROM goals WHERE id = ? AND user_id = ?`,
		goalID, userID,
	).Scan(&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.CurrentAmount, &g.TargetDate)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

func SaveGoal(userID int64, name string, targetAmount decimal.Decimal, targetDate string) (int64, error) {
	var date any
	if targetDate != "" {
		date = targetDate
	}
	res, err := DB.Exec(
		`INSERT INTO goals (user_id, name, target_amount, target_date) VALUES (?, ?, ?, ?)`,
		userID, name, targetAmount, date,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// AddGoalProgress increments current_amount and reports whether the goal existed.
func AddGoalProgress(userID, goalID int64, amount decimal.Decimal) (bool, error) {
	res, err := DB.Exec(
		`UPDATE goals SET current_amount = current_amount + ? WHERE id = ? AND user_id = ?`,
		amount, goalID, userID,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func DeleteGoal(userID, goalID int64) (bool, error) {
	res, err := DB.Exec(`DELETE FROM goals WHERE id = ? AND user_id = ?`, goalID, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
