package shortener

import "context"

// Repository is the durable, authoritative store of short links.
//
// Lookups return ErrNotFound when no record matches. Insert must reject a
// duplicate code with ErrCodeTaken and a duplicate long URL with ErrURLTaken
// atomically, since concurrent writers rely on it as the arbiter.
type Repository interface {
	FindByCode(ctx context.Context, code Code) (*ShortLink, error)
	FindByLongURL(ctx context.Context, longURL string) (*ShortLink, error)
	FindByUser(ctx context.Context, userID string) ([]*ShortLink, error)
	FindAll(ctx context.Context) ([]*ShortLink, error)

	// TopByHits returns at most n links ordered by descending hit count.
	TopByHits(ctx context.Context, n int) ([]*ShortLink, error)

	Insert(ctx context.Context, link *ShortLink) error

	// IncrementHitCount atomically adds one to the hit counter. Missing codes are a no-op.
	IncrementHitCount(ctx context.Context, code Code) error
}

// Cache holds advisory code -> long URL copies. Entries may vanish at any time.
type Cache interface {
	// Get reports whether code is cached and its long URL.
	Get(ctx context.Context, code Code) (string, bool, error)
	Set(ctx context.Context, code Code, longURL string) error
}

// HitRecorder bumps the popularity counter of a resolved code.
type HitRecorder interface {
	RecordHit(ctx context.Context, code Code) error
}

// StoreHitRecorder increments the hit counter directly in the repository.
type StoreHitRecorder struct {
	store Repository
}

// NewStoreHitRecorder creates a synchronous hit recorder.
func NewStoreHitRecorder(store Repository) *StoreHitRecorder {
	return &StoreHitRecorder{store: store}
}

func (r *StoreHitRecorder) RecordHit(ctx context.Context, code Code) error {
	return r.store.IncrementHitCount(ctx, code)
}
