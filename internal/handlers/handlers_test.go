package handlers_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Rithari/url-shortener/internal/handlers"
	"github.com/Rithari/url-shortener/internal/shortener"
	"github.com/Rithari/url-shortener/internal/store"
	"github.com/Rithari/url-shortener/internal/users"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const baseURL = "http://localhost:8888"

var errMock = errors.New("mock error")

// failingLinks fails every call with err.
type failingLinks struct {
	err error
}

func (f *failingLinks) Shorten(context.Context, string, string) (*shortener.ShortLink, bool, error) {
	return nil, false, f.err
}

func (f *failingLinks) Resolve(context.Context, shortener.Code) (string, error) {
	return "", f.err
}

func (f *failingLinks) ListAll(context.Context) ([]*shortener.ShortLink, error) {
	return nil, f.err
}

func (f *failingLinks) ListByUser(context.Context, string) ([]*shortener.ShortLink, error) {
	return nil, f.err
}

type testEnv struct {
	store *store.MemoryStore
	links *shortener.Service
	users *users.Service
	urls  *handlers.URLHandler
	accts *handlers.UserHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gen, err := shortener.NewNanoidGenerator(shortener.CodeLength)
	require.NoError(t, err)

	s := store.NewMemoryStore()
	links := shortener.NewService(s, store.NewMemoryCache(), shortener.NewStoreHitRecorder(s), gen, zap.NewNop())
	accounts := users.NewService(s, zap.NewNop())
	urls := handlers.NewURLHandler(links, baseURL, zap.NewNop())

	return &testEnv{
		store: s,
		links: links,
		users: accounts,
		urls:  urls,
		accts: handlers.NewUserHandler(accounts, urls, zap.NewNop()),
	}
}

func (e *testEnv) api(t *testing.T) humatest.TestAPI {
	t.Helper()

	_, api := humatest.New(t)
	handlers.RegisterRoutes(api, e.urls, e.accts)

	return api
}
