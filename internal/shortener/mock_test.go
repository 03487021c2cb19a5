package shortener_test

import (
	"context"
	"errors"
	"sync"

	"github.com/Rithari/url-shortener/internal/shortener"
	"github.com/Rithari/url-shortener/internal/store"
)

var errBoom = errors.New("boom")

// mockRepository wraps a MemoryStore and lets tests inject faults.
type mockRepository struct {
	*store.MemoryStore

	findByCodeErr    error
	findByLongURLErr error
	insertErr        error
	topErr           error
	listErr          error
	incrementErr     error

	// beforeInsert runs before each Insert, e.g. to simulate a concurrent writer.
	beforeInsert func(link *shortener.ShortLink)

	mu             sync.Mutex
	findByCodeHits int
	inserts        int
}

func newMockRepository() *mockRepository {
	return &mockRepository{MemoryStore: store.NewMemoryStore()}
}

func (m *mockRepository) FindByCode(ctx context.Context, code shortener.Code) (*shortener.ShortLink, error) {
	m.mu.Lock()
	m.findByCodeHits++
	m.mu.Unlock()

	if m.findByCodeErr != nil {
		return nil, m.findByCodeErr
	}

	return m.MemoryStore.FindByCode(ctx, code)
}

func (m *mockRepository) FindByLongURL(ctx context.Context, longURL string) (*shortener.ShortLink, error) {
	if m.findByLongURLErr != nil {
		return nil, m.findByLongURLErr
	}

	return m.MemoryStore.FindByLongURL(ctx, longURL)
}

func (m *mockRepository) Insert(ctx context.Context, link *shortener.ShortLink) error {
	m.mu.Lock()
	m.inserts++
	m.mu.Unlock()

	if m.beforeInsert != nil {
		m.beforeInsert(link)
	}

	if m.insertErr != nil {
		return m.insertErr
	}

	return m.MemoryStore.Insert(ctx, link)
}

func (m *mockRepository) TopByHits(ctx context.Context, n int) ([]*shortener.ShortLink, error) {
	if m.topErr != nil {
		return nil, m.topErr
	}

	return m.MemoryStore.TopByHits(ctx, n)
}

func (m *mockRepository) FindAll(ctx context.Context) ([]*shortener.ShortLink, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}

	return m.MemoryStore.FindAll(ctx)
}

func (m *mockRepository) FindByUser(ctx context.Context, userID string) ([]*shortener.ShortLink, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}

	return m.MemoryStore.FindByUser(ctx, userID)
}

func (m *mockRepository) IncrementHitCount(ctx context.Context, code shortener.Code) error {
	if m.incrementErr != nil {
		return m.incrementErr
	}

	return m.MemoryStore.IncrementHitCount(ctx, code)
}

func (m *mockRepository) lookups() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.findByCodeHits
}

// mockCache wraps a MemoryCache with injectable faults.
type mockCache struct {
	*store.MemoryCache

	getErr error
	setErr error
}

func newMockCache() *mockCache {
	return &mockCache{MemoryCache: store.NewMemoryCache()}
}

func (m *mockCache) Get(ctx context.Context, code shortener.Code) (string, bool, error) {
	if m.getErr != nil {
		return "", false, m.getErr
	}

	return m.MemoryCache.Get(ctx, code)
}

func (m *mockCache) Set(ctx context.Context, code shortener.Code, longURL string) error {
	if m.setErr != nil {
		return m.setErr
	}

	return m.MemoryCache.Set(ctx, code, longURL)
}

// blockingRepository never answers until ctx is done.
type blockingRepository struct {
	*store.MemoryStore
}

func (b *blockingRepository) FindByCode(ctx context.Context, _ shortener.Code) (*shortener.ShortLink, error) {
	<-ctx.Done()

	return nil, ctx.Err()
}

func (b *blockingRepository) FindByLongURL(ctx context.Context, _ string) (*shortener.ShortLink, error) {
	<-ctx.Done()

	return nil, ctx.Err()
}

type failingHitRecorder struct {
	calls int
}

func (f *failingHitRecorder) RecordHit(context.Context, shortener.Code) error {
	f.calls++

	return errBoom
}

// sequence replays codes in order and repeats the last one once exhausted.
func sequence(codes ...string) shortener.CodeGenerator {
	next := 0

	return func() string {
		code := codes[next]
		if next < len(codes)-1 {
			next++
		}

		return code
	}
}
