package store_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Rithari/url-shortener/internal/shortener"
	"github.com/Rithari/url-shortener/internal/users"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type backend interface {
	shortener.Repository
	users.Repository
}

func uniqueCode() shortener.Code {
	return shortener.Code(uuid.NewString()[:7])
}

func uniqueURL() string {
	return "https://example.com/" + uuid.NewString()
}

func newLink(userID string) *shortener.ShortLink {
	return &shortener.ShortLink{
		Code:      uniqueCode(),
		LongURL:   uniqueURL(),
		UserID:    userID,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
}

// testBackend runs the behaviour every store must share. Records are
// unique per subtest so the backend may be reused across runs.
func testBackend(t *testing.T, s backend) {
	ctx := context.Background()

	t.Run("insert and find by code", func(t *testing.T) {
		link := newLink("user-1")
		require.NoError(t, s.Insert(ctx, link))

		got, err := s.FindByCode(ctx, link.Code)
		require.NoError(t, err)
		assert.Equal(t, link.Code, got.Code)
		assert.Equal(t, link.LongURL, got.LongURL)
		assert.Equal(t, link.UserID, got.UserID)
		assert.Equal(t, int64(0), got.HitCount)
		assert.WithinDuration(t, link.CreatedAt, got.CreatedAt, time.Millisecond)
	})

	t.Run("find by long url", func(t *testing.T) {
		link := newLink("user-1")
		require.NoError(t, s.Insert(ctx, link))

		got, err := s.FindByLongURL(ctx, link.LongURL)
		require.NoError(t, err)
		assert.Equal(t, link.Code, got.Code)
	})

	t.Run("missing code returns not found", func(t *testing.T) {
		_, err := s.FindByCode(ctx, uniqueCode())
		assert.ErrorIs(t, err, shortener.ErrNotFound)

		_, err = s.FindByLongURL(ctx, uniqueURL())
		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})

	t.Run("duplicate code is rejected", func(t *testing.T) {
		link := newLink("user-1")
		require.NoError(t, s.Insert(ctx, link))

		dup := newLink("user-2")
		dup.Code = link.Code

		assert.ErrorIs(t, s.Insert(ctx, dup), shortener.ErrCodeTaken)
	})

	t.Run("duplicate long url is rejected", func(t *testing.T) {
		link := newLink("user-1")
		require.NoError(t, s.Insert(ctx, link))

		dup := newLink("user-2")
		dup.LongURL = link.LongURL

		assert.ErrorIs(t, s.Insert(ctx, dup), shortener.ErrURLTaken)
	})

	t.Run("concurrent increments are not lost", func(t *testing.T) {
		link := newLink("user-1")
		require.NoError(t, s.Insert(ctx, link))

		var wg sync.WaitGroup
		for range 25 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, s.IncrementHitCount(ctx, link.Code))
			}()
		}
		wg.Wait()

		got, err := s.FindByCode(ctx, link.Code)
		require.NoError(t, err)
		assert.Equal(t, int64(25), got.HitCount)
	})

	t.Run("increment of missing code is a no-op", func(t *testing.T) {
		assert.NoError(t, s.IncrementHitCount(ctx, uniqueCode()))
	})

	t.Run("top by hits orders descending", func(t *testing.T) {
		popular := newLink("user-1")
		popular.HitCount = 1_000_001
		runnerUp := newLink("user-1")
		runnerUp.HitCount = 1_000_000

		require.NoError(t, s.Insert(ctx, runnerUp))
		require.NoError(t, s.Insert(ctx, popular))

		top, err := s.TopByHits(ctx, 2)
		require.NoError(t, err)
		require.Len(t, top, 2)
		assert.Equal(t, popular.Code, top[0].Code)
		assert.Equal(t, runnerUp.Code, top[1].Code)
	})

	t.Run("find by user", func(t *testing.T) {
		owner := uuid.NewString()
		first := newLink(owner)
		second := newLink(owner)

		require.NoError(t, s.Insert(ctx, first))
		require.NoError(t, s.Insert(ctx, second))
		require.NoError(t, s.Insert(ctx, newLink("someone-else")))

		links, err := s.FindByUser(ctx, owner)
		require.NoError(t, err)
		require.Len(t, links, 2)

		codes := []shortener.Code{links[0].Code, links[1].Code}
		assert.ElementsMatch(t, []shortener.Code{first.Code, second.Code}, codes)

		none, err := s.FindByUser(ctx, uuid.NewString())
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("find all includes inserted links", func(t *testing.T) {
		link := newLink("user-1")
		require.NoError(t, s.Insert(ctx, link))

		all, err := s.FindAll(ctx)
		require.NoError(t, err)

		found := false
		for _, l := range all {
			if l.Code == link.Code {
				found = true
			}
		}
		assert.True(t, found)
	})

	t.Run("users", func(t *testing.T) {
		user := &users.User{
			ID:        uuid.NewString(),
			Email:     uuid.NewString() + "@example.com",
			CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
		}
		require.NoError(t, s.CreateUser(ctx, user))

		byID, err := s.FindUserByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user.Email, byID.Email)

		byEmail, err := s.FindUserByEmail(ctx, user.Email)
		require.NoError(t, err)
		assert.Equal(t, user.ID, byEmail.ID)

		dup := &users.User{ID: uuid.NewString(), Email: user.Email, CreatedAt: time.Now()}
		assert.ErrorIs(t, s.CreateUser(ctx, dup), users.ErrAlreadyExists)

		_, err = s.FindUserByID(ctx, uuid.NewString())
		assert.ErrorIs(t, err, users.ErrNotFound)

		list, err := s.ListUsers(ctx)
		require.NoError(t, err)
		assert.NotEmpty(t, list)
	})
}
