package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samber/lo"

	"parley/internal/domain"
)

// Chat is the facade the request layer talks to. It composes the managers,
// settles who may call what, and follows membership changes with advisory
// system messages.
type Chat struct {
	conversations *ConversationService
	participants  *ParticipantService
	messages      *MessageService
	reactions     *ReactionService
	bookmarks     *BookmarkService
}

func NewChat(
	conversations *ConversationService,
	participants *ParticipantService,
	messages *MessageService,
	reactions *ReactionService,
	bookmarks *BookmarkService,
) *Chat {
	return &Chat{
		conversations: conversations,
		participants:  participants,
		messages:      messages,
		reactions:     reactions,
		bookmarks:     bookmarks,
	}
}

// CreateConversation makes the caller a participant whether or not the
// request listed them, then applies the shape rules.
func (c *Chat) CreateConversation(ctx context.Context, callerID int64, in ConversationCreateInput) (*domain.Conversation, error) {
	in.ParticipantIDs = append([]int64{callerID}, in.ParticipantIDs...)
	return c.conversations.Create(ctx, in)
}

// GetConversation returns the conversation detail to callers who hold or
// ever held a membership row.
func (c *Chat) GetConversation(ctx context.Context, callerID, conversationID int64) (*domain.ConversationDetail, error) {
	detail, err := c.conversations.Get(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	member := lo.SomeBy(detail.Participants, func(p *domain.Participant) bool {
		return p.UserID == callerID
	})
	if !member {
		return nil, fmt.Errorf("%w: caller never participated in this conversation", domain.ErrForbidden)
	}
	return detail, nil
}

// ListConversations returns the caller's active conversations, most recently
// active first.
func (c *Chat) ListConversations(ctx context.Context, callerID int64) ([]*domain.ConversationSummary, error) {
	return c.conversations.ListForUser(ctx, callerID)
}

// AddParticipant lets an active member invite userID into a group. The new
// membership is followed by an advisory join notice.
func (c *Chat) AddParticipant(ctx context.Context, callerID, conversationID, userID int64, role domain.ParticipantRole) (*domain.Participant, error) {
	caller, err := c.participants.Active(ctx, conversationID, callerID)
	if err != nil {
		return nil, fmt.Errorf("check caller: %w", err)
	}
	if caller == nil {
		// An absent conversation outranks a failed caller check.
		if _, err := c.conversations.Get(ctx, conversationID); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: caller is not an active participant", domain.ErrForbidden)
	}

	p, err := c.participants.Add(ctx, conversationID, userID, role)
	if err != nil {
		return nil, err
	}
	c.advise(ctx, conversationID, domain.EventJoin, fmt.Sprintf("user %d joined the conversation", userID))
	return p, nil
}

// RemoveParticipant closes userID's membership. Members leave on their own;
// removing someone else takes an active admin. The closed membership is
// followed by an advisory leave notice.
func (c *Chat) RemoveParticipant(ctx context.Context, callerID, conversationID, userID int64) (*domain.Participant, error) {
	if callerID != userID {
		caller, err := c.participants.Active(ctx, conversationID, callerID)
		if err != nil {
			return nil, fmt.Errorf("check caller: %w", err)
		}
		if caller == nil || caller.Role != domain.RoleAdmin {
			return nil, fmt.Errorf("%w: removing another member takes an active admin", domain.ErrForbidden)
		}
	}

	p, err := c.participants.MarkLeft(ctx, conversationID, userID)
	if err != nil {
		return nil, err
	}
	c.advise(ctx, conversationID, domain.EventLeave, fmt.Sprintf("user %d left the conversation", userID))
	return p, nil
}

// SendMessage appends a user message; the sender must be an active
// participant.
func (c *Chat) SendMessage(ctx context.Context, callerID, conversationID int64, text string) (*domain.Message, error) {
	return c.messages.Send(ctx, conversationID, callerID, text)
}

// ListMessages returns one history page for anyone who ever participated.
func (c *Chat) ListMessages(ctx context.Context, callerID, conversationID int64, before *domain.MessageCursor, limit int) (*MessagePage, error) {
	return c.messages.List(ctx, conversationID, callerID, before, limit)
}

func (c *Chat) AddReaction(ctx context.Context, callerID, messageID int64, emoji string) (*domain.Reaction, error) {
	return c.reactions.Add(ctx, messageID, callerID, emoji)
}

func (c *Chat) RemoveReaction(ctx context.Context, callerID, messageID int64, emoji string) (*domain.Reaction, error) {
	return c.reactions.Remove(ctx, messageID, callerID, emoji)
}

func (c *Chat) AddBookmark(ctx context.Context, callerID, messageID int64) (*domain.Bookmark, error) {
	return c.bookmarks.Add(ctx, messageID, callerID)
}

func (c *Chat) RemoveBookmark(ctx context.Context, callerID, messageID int64) (*domain.Bookmark, error) {
	return c.bookmarks.Remove(ctx, messageID, callerID)
}

func (c *Chat) ListBookmarks(ctx context.Context, callerID int64) ([]*domain.BookmarkedMessage, error) {
	return c.bookmarks.ListForUser(ctx, callerID)
}

// advise appends a membership notice after the change committed. Failure here
// must not undo or fail the operation, so it is logged and dropped.
func (c *Chat) advise(ctx context.Context, conversationID int64, event domain.SystemEvent, text string) {
	if _, err := c.messages.EmitSystem(ctx, conversationID, event, text); err != nil {
		slog.WarnContext(ctx, "system message emission failed",
			"conversation_id", conversationID,
			"event", string(event),
			"error", err)
	}
}
