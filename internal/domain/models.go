package domain

import "time"

// ConversationKind discriminates the two conversation shapes.
type ConversationKind string

const (
	KindDirect ConversationKind = "direct"
	KindGroup  ConversationKind = "group"
)

// Valid reports whether k is one of the known kinds.
func (k ConversationKind) Valid() bool {
	return k == KindDirect || k == KindGroup
}

// ParticipantRole is the role a participant holds inside a conversation.
type ParticipantRole string

const (
	RoleMember ParticipantRole = "member"
	RoleAdmin  ParticipantRole = "admin"
)

// Valid reports whether r is one of the known roles.
func (r ParticipantRole) Valid() bool {
	return r == RoleMember || r == RoleAdmin
}

// SystemEvent tags a synthetic message emitted by the service itself.
type SystemEvent string

const (
	EventJoin  SystemEvent = "join"
	EventLeave SystemEvent = "leave"
)

// User represents an application user.
type User struct {
	ID             int64     `db:"id" json:"id"`
	Username       string    `db:"username" json:"username"`
	HashedPassword string    `db:"hashed_password" json:"-"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// Conversation represents a chat conversation (direct or group).
// Direct conversations never carry a name; group conversations always do.
type Conversation struct {
	ID        int64            `db:"id" json:"id"`
	Kind      ConversationKind `db:"kind" json:"kind"`
	Name      *string          `db:"name" json:"name,omitempty"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
}

// ConversationSummary is a conversation as it appears in a user's listing,
// ordered by most recent activity.
type ConversationSummary struct {
	Conversation
	LastMessageAt *time.Time `db:"last_message_at" json:"last_message_at,omitempty"`
}

// ConversationDetail is a conversation together with its full participant
// history, left members included.
type ConversationDetail struct {
	Conversation
	Participants []*Participant `json:"participants"`
}

// Participant represents one membership episode of a user in a conversation.
// Leaving sets LeftAt; the row stays behind as history.
type Participant struct {
	ID             int64           `db:"id" json:"id"`
	ConversationID int64           `db:"conversation_id" json:"conversation_id"`
	UserID         int64           `db:"user_id" json:"user_id"`
	Role           ParticipantRole `db:"role" json:"role"`
	JoinedAt       time.Time       `db:"joined_at" json:"joined_at"`
	LeftAt         *time.Time      `db:"left_at" json:"left_at,omitempty"`
}

// Active reports whether the membership is current.
func (p *Participant) Active() bool {
	return p.LeftAt == nil
}

// Message represents a single entry in a conversation's history. User
// messages carry a sender; system messages carry an event instead.
type Message struct {
	ID             int64        `db:"id" json:"id"`
	ConversationID int64        `db:"conversation_id" json:"conversation_id"`
	SenderID       *int64       `db:"sender_id" json:"sender_id"`
	Text           string       `db:"text" json:"text"`
	SystemEvent    *SystemEvent `db:"system_event" json:"system_event,omitempty"`
	CreatedAt      time.Time    `db:"created_at" json:"created_at"`
}

// System reports whether the message was emitted by the service itself.
func (m *Message) System() bool {
	return m.SystemEvent != nil
}

// Reaction is one user's emoji response to a message. A user may attach a
// given emoji to a message at most once.
type Reaction struct {
	MessageID int64     `db:"message_id" json:"message_id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Emoji     string    `db:"emoji" json:"emoji"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Bookmark is a user's private save of a message. At most one per
// (message, user) pair; invisible to everyone else.
type Bookmark struct {
	MessageID int64     `db:"message_id" json:"message_id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// BookmarkedMessage is a bookmark joined with the message it points at,
// as returned by a user's bookmark listing.
type BookmarkedMessage struct {
	Bookmark
	Message Message `json:"message"`
}
