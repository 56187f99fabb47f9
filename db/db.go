package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

var DB *sql.DB

// DefaultPath is used when DB_PATH is not set.
const DefaultPath = "data/financial_guardian.db"

// InitDB opens (or creates) the SQLite database and runs migrations.
func InitDB() error {
	path := os.Getenv("DB_PATH")
	if path == "" {
		path = DefaultPath
	}
	return Open(path)
}

// Open opens the database at the given path and creates the schema.
func Open(path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("error creating data directory: %w", err)
		}
	}

	var err error
	DB, err = sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("error opening database: %w", err)
	}

	// WAL mode for concurrent reads while the worker pool writes.
	if _, err := DB.Exec("PRAGMA journal_mode=WAL"); err != nil {
		DB.Close()
		return fmt.Errorf("error enabling WAL mode: %w", err)
	}
	if _, err := DB.Exec("PRAGMA foreign_keys=ON"); err != nil {
		DB.Close()
		return fmt.Errorf("error enabling foreign keys: %w", err)
	}

	if err := migrate(); err != nil {
		DB.Close()
		return err
	}

	if err := DB.Ping(); err != nil {
		return fmt.Errorf("error connecting to the database: %w", err)
	}
	return nil
}

func migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		phone_number TEXT UNIQUE NOT NULL,
		created_at   TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		last_updated TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS financial_data (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id       INTEGER NOT NULL REFERENCES users(id),
		raw_data_json TEXT NOT NULL,
		fetched_at    TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS categories (
		id      INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users(id),
		name    TEXT NOT NULL,
		type    TEXT NOT NULL,
		color   TEXT,
		icon    TEXT,
		UNIQUE(user_id, name, type)
	);

	-- Date columns are TEXT holding plain YYYY-MM-DD; a DATE decltype would
	-- make the sqlite driver hand them back as time.Time.
	CREATE TABLE IF NOT EXISTS transactions (
		id               INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id          INTEGER NOT NULL REFERENCES users(id),
		category_id      INTEGER REFERENCES categories(id),
		transaction_date TEXT NOT NULL,
		type             TEXT NOT NULL,
		amount           REAL NOT NULL,
		category         TEXT,
		narration        TEXT,
		balance          REAL,
		mode             TEXT,
		reference        TEXT,
		setu_txn_id      TEXT,
		source           TEXT DEFAULT 'SETU',
		created_at       TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS budgets (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id      INTEGER NOT NULL REFERENCES users(id),
		category_id  INTEGER NOT NULL REFERENCES categories(id),
		amount_limit REAL NOT NULL,
		month        TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS goals (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id        INTEGER NOT NULL REFERENCES users(id),
		name           TEXT NOT NULL,
		target_amount  REAL NOT NULL,
		current_amount REAL DEFAULT 0,
		target_date    TEXT
	);

	CREATE TABLE IF NOT EXISTS loans (
		id                INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id           INTEGER NOT NULL REFERENCES users(id),
		name              TEXT NOT NULL,
		loan_type         TEXT NOT NULL DEFAULT 'personal',
		principal_amount  REAL NOT NULL,
		remaining_balance REAL NOT NULL,
		emi_amount        REAL NOT NULL,
		interest_rate     REAL NOT NULL DEFAULT 0,
		next_due_date     TEXT
	);

	CREATE TABLE IF NOT EXISTS credit_cards (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id         INTEGER NOT NULL REFERENCES users(id),
		card_name       TEXT NOT NULL,
		credit_limit    REAL NOT NULL,
		current_balance REAL DEFAULT 0,
		due_date        TEXT
	);

	CREATE TABLE IF NOT EXISTS insights_cache (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id      INTEGER NOT NULL REFERENCES users(id),
		insight_type TEXT NOT NULL,
		data_json    TEXT NOT NULL,
		computed_at  TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		expires_at   TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS conversations (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id     INTEGER NOT NULL REFERENCES users(id),
		session_id  TEXT UNIQUE NOT NULL,
		created_at  TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		last_active TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS messages (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		conversation_id INTEGER NOT NULL REFERENCES conversations(id),
		role            TEXT NOT NULL,
		content         TEXT NOT NULL,
		timestamp       TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_user_phone ON users(phone_number);
	CREATE INDEX IF NOT EXISTS idx_transaction_user_date ON transactions(user_id, transaction_date);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_transaction_setu_txn ON transactions(user_id, setu_txn_id)
		WHERE setu_txn_id IS NOT NULL AND setu_txn_id != '';
	CREATE INDEX IF NOT EXISTS idx_insights_user_type ON insights_cache(user_id, insight_type);
	CREATE INDEX IF NOT EXISTS idx_conversation_session ON conversations(session_id);
	CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id);
	`
	if _, err := DB.Exec(schema); err != nil {
		return fmt.Errorf("error creating schema: %w", err)
	}
	return nil
}

// CloseDB closes the database connection.
func CloseDB() {
	if DB != nil {
		DB.Close()
	}
}

// Ping reports database health for the health endpoint.
func Ping() error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}
	return DB.Ping()
}
