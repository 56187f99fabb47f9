package db

import "database/sql"

// GetOrCreateCategory returns the category ID, creating the category if needed.
func GetOrCreateCategory(userID int64, name, catType string) (int64, error) {
	var id int64
	err := DB.QueryRow(
		`SELECT id FROM categories WHERE user_id = ? AND name = ? AND type = ?`,
		userID, name, catType,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, err
	}

	res, err := DB.Exec(
		`INSERT INTO categories (user_id, name, type) VALUES (?, ?, ?)`,
		userID, name, catType,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// CreateCategory creates a category with display metadata. Used by seeding.
func CreateCategory(userID int64, name, catType, color, icon string) (int64, error) {
	res, err := DB.Exec(
		`INSERT INTO categories (user_id, name, type, color, icon) VALUES (?, ?, ?, ?, ?)`,
		userID, name, catType, color, icon,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
