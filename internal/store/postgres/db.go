package postgres

import (
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"parley/internal/store"
)

// Open opens a PostgreSQL database using the pgx stdlib driver.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// Migrate runs idempotent DDL for the chat schema on PostgreSQL.
func Migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id              BIGSERIAL    PRIMARY KEY,
			username        VARCHAR(50)  UNIQUE NOT NULL,
			hashed_password VARCHAR(255) NOT NULL,
			created_at      TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS conversations (
			id         BIGSERIAL    PRIMARY KEY,
			kind       VARCHAR(10)  NOT NULL CHECK (kind IN ('direct', 'group')),
			name       VARCHAR(100),
			created_at TIMESTAMPTZ  NOT NULL
		)`,

		// One row per membership episode; leaving stamps left_at and keeps
		// the row. The partial unique index enforces a single active
		// membership per (conversation, user) under concurrent adds.
		`CREATE TABLE IF NOT EXISTS participants (
			id              BIGSERIAL    PRIMARY KEY,
			conversation_id BIGINT       NOT NULL REFERENCES conversations(id),
			user_id         BIGINT       NOT NULL REFERENCES users(id),
			role            VARCHAR(10)  NOT NULL DEFAULT 'member' CHECK (role IN ('member', 'admin')),
			joined_at       TIMESTAMPTZ  NOT NULL,
			left_at         TIMESTAMPTZ
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_participants_active
			ON participants(conversation_id, user_id) WHERE left_at IS NULL`,

		// sender_id is NULL exactly when system_event is set.
		`CREATE TABLE IF NOT EXISTS messages (
			id              BIGSERIAL    PRIMARY KEY,
			conversation_id BIGINT       NOT NULL REFERENCES conversations(id),
			sender_id       BIGINT       REFERENCES users(id),
			text            TEXT         NOT NULL,
			system_event    VARCHAR(10)  CHECK (system_event IN ('join', 'leave')),
			created_at      TIMESTAMPTZ  NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS reactions (
			message_id BIGINT      NOT NULL REFERENCES messages(id),
			user_id    BIGINT      NOT NULL REFERENCES users(id),
			emoji      TEXT        NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (message_id, user_id, emoji)
		)`,

		`CREATE TABLE IF NOT EXISTS bookmarks (
			message_id BIGINT      NOT NULL REFERENCES messages(id),
			user_id    BIGINT      NOT NULL REFERENCES users(id),
			created_at TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (message_id, user_id)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_participants_user ON participants(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_participants_conv ON participants(conversation_id)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_conv_created ON messages(conversation_id, created_at DESC, id DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_bookmarks_user ON bookmarks(user_id, created_at DESC)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w\nSQL: %s", err, stmt)
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
