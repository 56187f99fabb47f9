package db

import (
	"database/sql"

	"financial-guardian/api/models"
)

// GetOrCreateConversation finds the conversation for a session ID or starts one.
func GetOrCreateConversation(userID int64, sessionID string) (*models.Conversation, error) {
	conv := &models.Conversation{}
	err := DB.QueryRow(
		`SELECT id, user_id, session_id, created_at, last_active FROM conversations WHERE session_id = ?`,
		sessionID,
	).Scan(&conv.ID, &conv.UserID, &conv.SessionID, &conv.CreatedAt, &conv.LastActive)
	if err == nil {
		_, err = DB.Exec(`UPDATE conversations SET last_active = CURRENT_TIMESTAMP WHERE id = ?`, conv.ID)
		return conv, err
	}
	if err != sql.ErrNoRows {
		return nil, err
	}

	res, err := DB.Exec(
		`INSERT INTO conversations (user_id, session_id) VALUES (?, ?)`,
		userID, sessionID,
	)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &models.Conversation{ID: id, UserID: userID, SessionID: sessionID}, nil
}

func AppendMessage(conversationID int64, role, content string) error {
	_, err := DB.Exec(
		`INSERT INTO messages (conversation_id, role, content) VALUES (?, ?, ?)`,
		conversationID, role, content,
	)
	return err
}

func GetMessages(conversationID int64, limit int) ([]models.ChatMessage, error) {
	query := `SELECT id, conversation_id, role, content, timestamp FROM messages WHERE conversation_id = ? ORDER BY id`
	args := []any{conversationID}
	if limit > 0 {
		// Most recent N, returned oldest first.
		query = `SELECT id, conversation_id, role, content, timestamp FROM (
			SELECT id, conversation_id, role, content, timestamp FROM messages
			WHERE conversation_id = ? ORDER BY id DESC LIMIT ?
		) ORDER BY id`
		args = append(args, limit)
	}

	rows, err := DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.ChatMessage{}
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Role, &m.Content, &m.Timestamp); err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}
