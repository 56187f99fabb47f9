package db

import (
	"database/sql"
	"time"
)

// GetUserID returns the user ID for a phone number, or 0 if not found.
func GetUserID(phoneNumber string) (int64, error) {
	var id int64
	err := DB.QueryRow(`SELECT id FROM users WHERE phone_number = ?`, phoneNumber).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

// UserExists reports whether a user with the given ID exists.
func UserExists(userID int64) (bool, error) {
	var one int
	err := DB.QueryRow(`SELECT 1 FROM users WHERE id = ?`, userID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func CreateUser(phoneNumber string) (int64, error) {
	res, err := DB.Exec(`INSERT INTO users (phone_number) VALUES (?)`, phoneNumber)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetOrCreateUser returns the existing user's ID or creates one.
func GetOrCreateUser(phoneNumber string) (int64, error) {
	id, err := GetUserID(phoneNumber)
	if err != nil {
		return 0, err
	}
	if id != 0 {
		return id, nil
	}
	return CreateUser(phoneNumber)
}

// LastSynced returns when the user's data was last refreshed. The zero time
// means the user was never synced (or does not exist).
func LastSynced(userID int64) (time.Time, error) {
	var ts time.Time
	err := DB.QueryRow(`SELECT last_updated FROM users WHERE id = ?`, userID).Scan(&ts)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return ts, nil
}

// TouchUser updates the user's last_updated timestamp after a sync.
func TouchUser(userID int64) error {
	_, err := DB.Exec(`UPDATE users SET last_updated = CURRENT_TIMESTAMP WHERE id = ?`, userID)
	return err
}
