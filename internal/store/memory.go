package store

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/Rithari/url-shortener/internal/shortener"
	"github.com/Rithari/url-shortener/internal/users"
)

var (
	_ shortener.Repository = (*MemoryStore)(nil)
	_ users.Repository     = (*MemoryStore)(nil)
)

// MemoryStore is an in-memory implementation of shortener.Repository and users.Repository.
type MemoryStore struct {
	mu      sync.RWMutex
	links   map[shortener.Code]shortener.ShortLink
	byURL   map[string]shortener.Code // longURL -> code
	order   []shortener.Code
	users   map[string]users.User
	byEmail map[string]string // email -> id
	userIDs []string
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		links:   make(map[shortener.Code]shortener.ShortLink),
		byURL:   make(map[string]shortener.Code),
		users:   make(map[string]users.User),
		byEmail: make(map[string]string),
	}
}

func (m *MemoryStore) Insert(_ context.Context, link *shortener.ShortLink) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.links[link.Code]; ok {
		return shortener.ErrCodeTaken
	}

	if _, ok := m.byURL[link.LongURL]; ok {
		return shortener.ErrURLTaken
	}

	m.links[link.Code] = *link
	m.byURL[link.LongURL] = link.Code
	m.order = append(m.order, link.Code)

	return nil
}

func (m *MemoryStore) FindByCode(_ context.Context, code shortener.Code) (*shortener.ShortLink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	link, ok := m.links[code]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	return &link, nil
}

func (m *MemoryStore) FindByLongURL(_ context.Context, longURL string) (*shortener.ShortLink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	code, ok := m.byURL[longURL]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	link := m.links[code]

	return &link, nil
}

func (m *MemoryStore) FindByUser(_ context.Context, userID string) ([]*shortener.ShortLink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*shortener.ShortLink, 0)

	for _, code := range m.order {
		link := m.links[code]
		if link.UserID == userID {
			result = append(result, &link)
		}
	}

	return result, nil
}

func (m *MemoryStore) FindAll(_ context.Context) ([]*shortener.ShortLink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*shortener.ShortLink, 0, len(m.order))

	for _, code := range m.order {
		link := m.links[code]
		result = append(result, &link)
	}

	return result, nil
}

func (m *MemoryStore) TopByHits(ctx context.Context, n int) ([]*shortener.ShortLink, error) {
	all, _ := m.FindAll(ctx)

	slices.SortStableFunc(all, func(a, b *shortener.ShortLink) int {
		return cmp.Compare(b.HitCount, a.HitCount)
	})

	if n < len(all) {
		all = all[:max(n, 0)]
	}

	return all, nil
}

func (m *MemoryStore) IncrementHitCount(_ context.Context, code shortener.Code) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	link, ok := m.links[code]
	if !ok {
		return nil
	}

	link.HitCount++
	m.links[code] = link

	return nil
}

func (m *MemoryStore) CreateUser(_ context.Context, user *users.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byEmail[user.Email]; ok {
		return users.ErrAlreadyExists
	}

	m.users[user.ID] = *user
	m.byEmail[user.Email] = user.ID
	m.userIDs = append(m.userIDs, user.ID)

	return nil
}

func (m *MemoryStore) FindUserByID(_ context.Context, id string) (*users.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[id]
	if !ok {
		return nil, users.ErrNotFound
	}

	return &user, nil
}

func (m *MemoryStore) FindUserByEmail(_ context.Context, email string) (*users.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byEmail[email]
	if !ok {
		return nil, users.ErrNotFound
	}

	user := m.users[id]

	return &user, nil
}

func (m *MemoryStore) ListUsers(_ context.Context) ([]*users.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*users.User, 0, len(m.userIDs))

	for _, id := range m.userIDs {
		user := m.users[id]
		result = append(result, &user)
	}

	return result, nil
}

// Ping always succeeds.
func (m *MemoryStore) Ping(context.Context) error {
	return nil
}
