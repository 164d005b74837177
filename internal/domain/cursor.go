package domain

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MessageCursor marks a position in a conversation's history. Pages are keyed
// by (createdAt, id) descending; the cursor carries both so ties on createdAt
// never skip or repeat rows.
type MessageCursor struct {
	CreatedAt time.Time
	ID        int64
}

// CursorFor builds the cursor that resumes listing strictly below m.
func CursorFor(m *Message) MessageCursor {
	return MessageCursor{CreatedAt: m.CreatedAt, ID: m.ID}
}

// Encode renders the cursor as an opaque URL-safe token.
func (c MessageCursor) Encode() string {
	raw := strconv.FormatInt(c.CreatedAt.UnixNano(), 10) + ":" + strconv.FormatInt(c.ID, 10)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// ParseMessageCursor decodes a token produced by Encode. Malformed tokens are
// reported as ErrInvalidInput.
func ParseMessageCursor(token string) (MessageCursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return MessageCursor{}, fmt.Errorf("%w: malformed cursor", ErrInvalidInput)
	}
	head, tail, ok := strings.Cut(string(raw), ":")
	if !ok {
		return MessageCursor{}, fmt.Errorf("%w: malformed cursor", ErrInvalidInput)
	}
	nanos, err := strconv.ParseInt(head, 10, 64)
	if err != nil {
		return MessageCursor{}, fmt.Errorf("%w: malformed cursor", ErrInvalidInput)
	}
	id, err := strconv.ParseInt(tail, 10, 64)
	if err != nil {
		return MessageCursor{}, fmt.Errorf("%w: malformed cursor", ErrInvalidInput)
	}
	return MessageCursor{CreatedAt: time.Unix(0, nanos).UTC(), ID: id}, nil
}
