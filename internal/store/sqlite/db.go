package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"parley/internal/store"
)

// Open opens a SQLite database at the given path. Pragmas ride on the DSN so
// every pooled connection gets them, not just the first.
func Open(path string) (*sql.DB, error) {
	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return db, nil
}

// Migrate creates the schema. A simple, idempotent set of CREATE TABLE /
// CREATE INDEX statements.
//
// Timestamps are stored as unix nanoseconds so page cursors compare exactly;
// DATETIME columns would flatten ties to whole seconds.
func Migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY,
			username VARCHAR(50) UNIQUE NOT NULL,
			hashed_password VARCHAR(255) NOT NULL,
			created_at INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS conversations (
			id INTEGER PRIMARY KEY,
			kind TEXT NOT NULL CHECK (kind IN ('direct', 'group')),
			name VARCHAR(100),
			created_at INTEGER NOT NULL
		);`,
		// One row per membership episode; leaving keeps the row and stamps
		// left_at. The partial unique index is what makes "one active
		// membership per user" hold under concurrent adds.
		`CREATE TABLE IF NOT EXISTS participants (
			id INTEGER PRIMARY KEY,
			conversation_id INTEGER NOT NULL,
			user_id INTEGER NOT NULL,
			role TEXT NOT NULL DEFAULT 'member' CHECK (role IN ('member', 'admin')),
			joined_at INTEGER NOT NULL,
			left_at INTEGER,
			FOREIGN KEY (conversation_id) REFERENCES conversations(id),
			FOREIGN KEY (user_id) REFERENCES users(id)
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_participants_active
			ON participants(conversation_id, user_id) WHERE left_at IS NULL;`,
		// sender_id is NULL exactly when system_event is set.
		`CREATE TABLE IF NOT EXISTS messages (
			id INTEGER PRIMARY KEY,
			conversation_id INTEGER NOT NULL,
			sender_id INTEGER,
			text TEXT NOT NULL,
			system_event TEXT CHECK (system_event IN ('join', 'leave')),
			created_at INTEGER NOT NULL,
			FOREIGN KEY (conversation_id) REFERENCES conversations(id),
			FOREIGN KEY (sender_id) REFERENCES users(id)
		);`,
		`CREATE TABLE IF NOT EXISTS reactions (
			message_id INTEGER NOT NULL,
			user_id INTEGER NOT NULL,
			emoji TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			PRIMARY KEY (message_id, user_id, emoji),
			FOREIGN KEY (message_id) REFERENCES messages(id),
			FOREIGN KEY (user_id) REFERENCES users(id)
		);`,
		`CREATE TABLE IF NOT EXISTS bookmarks (
			message_id INTEGER NOT NULL,
			user_id INTEGER NOT NULL,
			created_at INTEGER NOT NULL,
			PRIMARY KEY (message_id, user_id),
			FOREIGN KEY (message_id) REFERENCES messages(id),
			FOREIGN KEY (user_id) REFERENCES users(id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_participants_user ON participants(user_id);`,
		`CREATE INDEX IF NOT EXISTS idx_participants_conv ON participants(conversation_id);`,
		`CREATE INDEX IF NOT EXISTS idx_messages_conv_created ON messages(conversation_id, created_at DESC, id DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_bookmarks_user ON bookmarks(user_id, created_at DESC);`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	return nil
}

// NewRepositories wires every adapter of this backend onto db.
func NewRepositories(db *sql.DB) *store.Repositories {
	return &store.Repositories{
		Users:         NewUserRepo(db),
		Conversations: NewConversationRepo(db),
		Participants:  NewParticipantRepo(db),
		Messages:      NewMessageRepo(db),
		Reactions:     NewReactionRepo(db),
		Bookmarks:     NewBookmarkRepo(db),
	}
}
