package db

import (
	"database/sql"
	"encoding/json"
	"time"
)

// GetCachedInsight returns the unexpired cached insight data, or nil.
func GetCachedInsight(userID int64, insightType string) (json.RawMessage, error) {
	var data string
	err := DB.QueryRow(`
		SELECT data_json FROM insights_cache
		WHERE user_id = ? AND insight_type = ? AND expires_at > ?
		ORDER BY computed_at DESC LIMIT 1`,
		userID, insightType, time.Now().UTC().Format(time.RFC3339),
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return json.RawMessage(data), nil
}

func SaveInsight(userID int64, insightType string, data any, ttl time.Duration) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	expiresAt := time.Now().UTC().Add(ttl).Format(time.RFC3339)
	_, err = DB.Exec(
		`INSERT INTO insights_cache (user_id, insight_type, data_json, expires_at) VALUES (?, ?, ?, ?)`,
		userID, insightType, string(raw), expiresAt,
	)
	return err
}

// SweepExpiredInsights deletes expired cache rows. Run by the cron scheduler.
func SweepExpiredInsights() (int64, error) {
	res, err := DB.Exec(
		`DELETE FROM insights_cache WHERE expires_at <= ?`,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
