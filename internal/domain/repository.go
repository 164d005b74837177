package domain

import (
	"context"
	"time"
)

// UserRepository defines persistence operations for users. Lookups return
// (nil, nil) when no row matches; callers decide what absence means.
type UserRepository interface {
	// Create inserts u; a taken username fails with ErrConflict.
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
}

// ConversationRepository defines persistence operations for conversations.
type ConversationRepository interface {
	// Create persists c and its initial participant rows in one transaction;
	// either everything lands or nothing does.
	Create(ctx context.Context, c *Conversation, participants []*Participant) error
	// GetByID returns (nil, nil) when no such conversation exists.
	GetByID(ctx context.Context, id int64) (*Conversation, error)
	// ListForUser returns the conversations userID is an active participant
	// of, most recently active first (last message time, falling back to the
	// conversation's creation time).
	ListForUser(ctx context.Context, userID int64) ([]*ConversationSummary, error)
}

// ParticipantRepository defines operations around conversation membership.
type ParticipantRepository interface {
	// Create inserts a membership row. A second active row for the same
	// (conversation, user) pair fails with ErrConflict.
	Create(ctx context.Context, p *Participant) error
	// ListForConversation returns every membership row of the conversation,
	// left members included, oldest join first.
	ListForConversation(ctx context.Context, conversationID int64) ([]*Participant, error)
	// GetActive returns the current membership of userID, or (nil, nil) when
	// there is none.
	GetActive(ctx context.Context, conversationID, userID int64) (*Participant, error)
	// HasAny reports whether userID ever held a membership row, active or not.
	HasAny(ctx context.Context, conversationID, userID int64) (bool, error)
	// SetLeft closes the active membership of userID at the given instant and
	// returns the closed row. ErrNotFound when no active row exists.
	SetLeft(ctx context.Context, conversationID, userID int64, when time.Time) (*Participant, error)
}

// MessageRepository defines persistence operations for messages.
type MessageRepository interface {
	Create(ctx context.Context, m *Message) error
	// GetByID returns (nil, nil) when no such message exists.
	GetByID(ctx context.Context, id int64) (*Message, error)
	// ListPage returns up to limit messages of the conversation strictly
	// below the cursor, newest first by (created_at, id). A nil cursor starts
	// from the newest message.
	ListPage(ctx context.Context, conversationID int64, before *MessageCursor, limit int) ([]*Message, error)
}

// ReactionRepository defines persistence operations for reactions.
type ReactionRepository interface {
	// Create inserts r; a duplicate (message, user, emoji) fails with ErrConflict.
	Create(ctx context.Context, r *Reaction) error
	// Delete removes the exact reaction and returns it, or ErrNotFound.
	Delete(ctx context.Context, messageID, userID int64, emoji string) (*Reaction, error)
	// ListForMessages returns the reactions of the given messages, oldest first.
	ListForMessages(ctx context.Context, messageIDs []int64) ([]*Reaction, error)
}

// BookmarkRepository defines persistence operations for bookmarks.
type BookmarkRepository interface {
	// Create inserts b; a duplicate (message, user) fails with ErrConflict.
	Create(ctx context.Context, b *Bookmark) error
	// Delete removes the user's bookmark on the message, or ErrNotFound.
	Delete(ctx context.Context, messageID, userID int64) (*Bookmark, error)
	// ListForUser returns the user's bookmarks joined with their messages,
	// most recently bookmarked first.
	ListForUser(ctx context.Context, userID int64) ([]*BookmarkedMessage, error)
}
