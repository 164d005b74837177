package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"

	"parley/internal/domain"
)

const maxMessageRunes = 5000

// MessageService owns message persistence and paging. Synthetic system
// messages go through EmitSystem and share the message timeline.
type MessageService struct {
	conversations domain.ConversationRepository
	participants  domain.ParticipantRepository
	messages      domain.MessageRepository
	reactions     domain.ReactionRepository

	pageSizeDefault int
	pageSizeMax     int
}

func NewMessageService(
	conversations domain.ConversationRepository,
	participants domain.ParticipantRepository,
	messages domain.MessageRepository,
	reactions domain.ReactionRepository,
	pageSizeDefault, pageSizeMax int,
) *MessageService {
	return &MessageService{
		conversations:   conversations,
		participants:    participants,
		messages:        messages,
		reactions:       reactions,
		pageSizeDefault: pageSizeDefault,
		pageSizeMax:     pageSizeMax,
	}
}

// Send appends a user message. Only active participants may send; members who
// left keep read access but get ErrForbidden here.
func (s *MessageService) Send(ctx context.Context, conversationID, senderID int64, text string) (*domain.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: message text cannot be empty", domain.ErrInvalidInput)
	}
	if len([]rune(text)) > maxMessageRunes {
		return nil, fmt.Errorf("%w: message text exceeds %d characters", domain.ErrInvalidInput, maxMessageRunes)
	}

	conv, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, fmt.Errorf("conversation %d: %w", conversationID, domain.ErrNotFound)
	}

	active, err := s.participants.GetActive(ctx, conversationID, senderID)
	if err != nil {
		return nil, fmt.Errorf("check participant: %w", err)
	}
	if active == nil {
		return nil, fmt.Errorf("%w: sender is not an active participant", domain.ErrForbidden)
	}

	m := &domain.Message{
		ConversationID: conversationID,
		SenderID:       &senderID,
		Text:           text,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.messages.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// EmitSystem appends a synthetic message describing a membership event. It
// has no sender and skips the participant check; callers invoke it right
// after the membership change it describes.
func (s *MessageService) EmitSystem(ctx context.Context, conversationID int64, event domain.SystemEvent, text string) (*domain.Message, error) {
	m := &domain.Message{
		ConversationID: conversationID,
		Text:           text,
		SystemEvent:    &event,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.messages.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// MessagePage is one page of history, newest first, plus the token that
// resumes below it. NextCursor is nil once the page was short.
type MessagePage struct {
	Messages   []*MessageView `json:"messages"`
	NextCursor *string        `json:"next_cursor"`
}

// MessageView is a message as the request layer renders it, reactions
// attached.
type MessageView struct {
	ID             int64               `json:"id"`
	ConversationID int64               `json:"conversation_id"`
	SenderID       *int64              `json:"sender_id"`
	Text           string              `json:"text"`
	SystemEvent    *domain.SystemEvent `json:"system_event,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	Reactions      []*ReactionView     `json:"reactions"`
}

type ReactionView struct {
	UserID    int64     `json:"user_id"`
	Emoji     string    `json:"emoji"`
	CreatedAt time.Time `json:"created_at"`
}

// List returns one history page. Anyone who ever held a membership row may
// read, which keeps history available to members who left. Out-of-range
// limits never fail: non-positive falls back to the default, oversized is
// capped at the maximum.
func (s *MessageService) List(ctx context.Context, conversationID, callerID int64, before *domain.MessageCursor, limit int) (*MessagePage, error) {
	conv, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, fmt.Errorf("conversation %d: %w", conversationID, domain.ErrNotFound)
	}

	member, err := s.participants.HasAny(ctx, conversationID, callerID)
	if err != nil {
		return nil, fmt.Errorf("check participant: %w", err)
	}
	if !member {
		return nil, fmt.Errorf("%w: caller never participated in this conversation", domain.ErrForbidden)
	}

	if limit <= 0 {
		limit = s.pageSizeDefault
	}
	if limit > s.pageSizeMax {
		limit = s.pageSizeMax
	}

	msgs, err := s.messages.ListPage(ctx, conversationID, before, limit)
	if err != nil {
		return nil, err
	}

	views, err := s.annotate(ctx, msgs)
	if err != nil {
		return nil, err
	}

	page := &MessagePage{Messages: views}
	if len(msgs) == limit && limit > 0 {
		token := domain.CursorFor(msgs[len(msgs)-1]).Encode()
		page.NextCursor = &token
	}
	return page, nil
}

// annotate joins the page with its reactions in one query.
func (s *MessageService) annotate(ctx context.Context, msgs []*domain.Message) ([]*MessageView, error) {
	ids := lo.Map(msgs, func(m *domain.Message, _ int) int64 { return m.ID })
	reactions, err := s.reactions.ListForMessages(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list reactions: %w", err)
	}
	byMessage := lo.GroupBy(reactions, func(r *domain.Reaction) int64 { return r.MessageID })

	views := make([]*MessageView, len(msgs))
	for i, m := range msgs {
		views[i] = &MessageView{
			ID:             m.ID,
			ConversationID: m.ConversationID,
			SenderID:       m.SenderID,
			Text:           m.Text,
			SystemEvent:    m.SystemEvent,
			CreatedAt:      m.CreatedAt,
			Reactions: lo.Map(byMessage[m.ID], func(r *domain.Reaction, _ int) *ReactionView {
				return &ReactionView{UserID: r.UserID, Emoji: r.Emoji, CreatedAt: r.CreatedAt}
			}),
		}
	}
	return views, nil
}
