// Package store groups the persistence adapters behind the domain's
// repository interfaces so the rest of the application never cares which
// backend is configured.
package store

import "parley/internal/domain"

// Repositories bundles one backend's adapters. Both the sqlite and postgres
// packages produce this from an open database handle.
type Repositories struct {
	Users         domain.UserRepository
	Conversations domain.ConversationRepository
	Participants  domain.ParticipantRepository
	Messages      domain.MessageRepository
	Reactions     domain.ReactionRepository
	Bookmarks     domain.BookmarkRepository
}
