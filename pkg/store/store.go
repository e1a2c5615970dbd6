package store

import "reelrate/pkg/domain"

// Store is the persistence boundary for users, catalog items and votes.
// MemoryStore is the authoritative single-process implementation; RedisStore
// and GormStore externalize the same state to a durable backend.
type Store interface {
	SaveUser(u domain.User) error
	HasUserEmail(email string) (bool, error)
	GetUserByEmail(email string) (domain.User, bool, error)
	GetUserByID(id string) (domain.User, bool, error)

	// SeedItems registers catalog items for a category. Items already present
	// keep their vote state; seeding never resets counters.
	SeedItems(category domain.Category, items []domain.ContentItem) error
	ListItems(category domain.Category) ([]domain.ContentItem, error)
	GetItem(category domain.Category, id int) (domain.ContentItem, bool, error)

	// CastVote applies the per-(item, user) vote state machine and returns the
	// post-mutation aggregate. It fails with domain.ErrItemNotFound for unknown
	// items and domain.ErrDuplicateVote when the user resubmits their current
	// vote. Counter adjustments are atomic with the voter-set update.
	CastVote(category domain.Category, id int, userID string, kind domain.VoteKind) (domain.VoteCounts, error)
}

// SessionStore issues and verifies session credentials.
type SessionStore interface {
	NewSession(userID, email string) (string, error)
	VerifyToken(token string) (domain.Identity, error)
}
