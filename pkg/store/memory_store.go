package store

import (
	"sync"

	"reelrate/pkg/domain"
)

// MemoryStore keeps all state in-process. One mutex guards the whole ledger;
// CastVote holds it for the full read-modify-write so counters can never
// drift from the voter set under concurrent requests.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]domain.User
	email map[string]string // email -> user ID
	items map[domain.Category]map[int]*itemState
	order map[domain.Category][]int // seed order per category
}

type itemState struct {
	item   domain.ContentItem
	voters map[string]domain.VoteKind
}

// NewMemoryStore initializes an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[string]domain.User),
		email: make(map[string]string),
		items: make(map[domain.Category]map[int]*itemState),
		order: make(map[domain.Category][]int),
	}
}

// SaveUser registers a user and indexes their email.
func (m *MemoryStore) SaveUser(u domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
	m.email[u.Email] = u.ID
	return nil
}

// HasUserEmail checks if an email is already registered.
func (m *MemoryStore) HasUserEmail(email string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.email[email]
	return ok, nil
}

// GetUserByEmail looks up a user by email.
func (m *MemoryStore) GetUserByEmail(email string) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if id, ok := m.email[email]; ok {
		u, exists := m.users[id]
		return u, exists, nil
	}
	return domain.User{}, false, nil
}

// GetUserByID returns a user by ID.
func (m *MemoryStore) GetUserByID(id string) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	return u, ok, nil
}

// SeedItems registers catalog items. An item id already present keeps its
// existing vote state.
func (m *MemoryStore) SeedItems(category domain.Category, items []domain.ContentItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.items[category] == nil {
		m.items[category] = make(map[int]*itemState)
	}
	for _, item := range items {
		if _, exists := m.items[category][item.ID]; exists {
			continue
		}
		m.items[category][item.ID] = &itemState{
			item:   item,
			voters: make(map[string]domain.VoteKind),
		}
		m.order[category] = append(m.order[category], item.ID)
	}
	return nil
}

// ListItems returns items with current counts, in seed order.
func (m *MemoryStore) ListItems(category domain.Category) ([]domain.ContentItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.ContentItem, 0, len(m.order[category]))
	for _, id := range m.order[category] {
		if state, ok := m.items[category][id]; ok {
			res = append(res, state.item)
		}
	}
	return res, nil
}

// GetItem retrieves an item with its current counts.
func (m *MemoryStore) GetItem(category domain.Category, id int) (domain.ContentItem, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	state, ok := m.items[category][id]
	if !ok {
		return domain.ContentItem{}, false, nil
	}
	return state.item, true, nil
}

// CastVote applies a vote under the ledger lock. Transitions:
// no vote -> insert entry, bump counter; opposite vote -> swap both counters;
// same vote -> ErrDuplicateVote with no state change.
func (m *MemoryStore) CastVote(category domain.Category, id int, userID string, kind domain.VoteKind) (domain.VoteCounts, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	state, ok := m.items[category][id]
	if !ok {
		return domain.VoteCounts{}, domain.ErrItemNotFound
	}
	if current, voted := state.voters[userID]; voted {
		if current == kind {
			return domain.VoteCounts{}, domain.ErrDuplicateVote
		}
		if current == domain.VoteLike {
			state.item.Likes--
		} else {
			state.item.Dislikes--
		}
	}
	if kind == domain.VoteLike {
		state.item.Likes++
	} else {
		state.item.Dislikes++
	}
	state.voters[userID] = kind
	return domain.VoteCounts{Likes: state.item.Likes, Dislikes: state.item.Dislikes}, nil
}
