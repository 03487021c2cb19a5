package shortener

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Rithari/url-shortener/internal/metrics"
	"go.uber.org/zap"
)

const (
	DefaultMaxAttempts  = 20
	DefaultPreloadCount = 10
)

// Service creates short links and resolves codes through a cache-aside layer.
type Service struct {
	store          Repository
	cache          Cache
	hits           HitRecorder
	generateCode   CodeGenerator
	logger         *zap.Logger
	metrics        *metrics.Metrics
	maxAttempts    int
	timeout        time.Duration
	countCacheHits bool
	now            func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithMaxAttempts caps how many codes Shorten draws before giving up.
func WithMaxAttempts(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithTimeout bounds every individual store and cache call. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.timeout = d
	}
}

// WithCountCacheHits controls whether resolutions served from the cache bump the hit counter.
func WithCountCacheHits(enabled bool) Option {
	return func(s *Service) {
		s.countCacheHits = enabled
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(
	store Repository,
	cache Cache,
	hits HitRecorder,
	generateCode CodeGenerator,
	logger *zap.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		store:          store,
		cache:          cache,
		hits:           hits,
		generateCode:   generateCode,
		logger:         logger,
		maxAttempts:    DefaultMaxAttempts,
		countCacheHits: true,
		now:            time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Shorten returns the link for longURL, creating one with a fresh code when
// the URL has not been shortened before. created reports whether a new link was stored.
func (s *Service) Shorten(ctx context.Context, longURL, userID string) (link *ShortLink, created bool, err error) {
	if !ValidURL(longURL) {
		s.logger.Warn("rejected long url", zap.String("longUrl", longURL))

		return nil, false, ErrInvalidInput
	}

	existing, err := s.findByLongURL(ctx, longURL)
	if err == nil {
		s.logger.Debug("long url already shortened",
			zap.String("code", string(existing.Code)),
			zap.String("longUrl", longURL),
		)

		return existing, false, nil
	}

	if !errors.Is(err, ErrNotFound) {
		return nil, false, s.creationFailure(longURL, err)
	}

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		code := Code(s.generateCode())

		_, err := s.findByCode(ctx, code)
		if err == nil {
			s.metrics.CodeCollision()
			s.logger.Debug("generated code already taken",
				zap.String("code", string(code)),
				zap.Int("attempt", attempt),
			)

			continue
		}

		if !errors.Is(err, ErrNotFound) {
			return nil, false, s.creationFailure(longURL, err)
		}

		link = &ShortLink{
			Code:      code,
			LongURL:   longURL,
			UserID:    userID,
			CreatedAt: s.now(),
		}

		err = s.insert(ctx, link)

		switch {
		case err == nil:
			s.metrics.LinkCreated()
			s.logger.Info("created short url",
				zap.String("code", string(code)),
				zap.String("longUrl", longURL),
				zap.String("userId", userID),
			)

			return link, true, nil
		case errors.Is(err, ErrCodeTaken):
			s.metrics.CodeCollision()

			continue
		case errors.Is(err, ErrURLTaken):
			winner, err := s.findByLongURL(ctx, longURL)
			if err != nil {
				return nil, false, s.creationFailure(longURL, err)
			}

			return winner, false, nil
		default:
			return nil, false, s.creationFailure(longURL, err)
		}
	}

	s.metrics.CodeSpaceExhausted()
	s.logger.Error("code space exhausted",
		zap.Int("attempts", s.maxAttempts),
		zap.Int("codeLength", CodeLength),
		zap.String("longUrl", longURL),
	)

	return nil, false, fmt.Errorf("%w after %d attempts", ErrCodeSpaceExhausted, s.maxAttempts)
}

// Resolve returns the long URL behind code. Cache faults fall through to the store.
func (s *Service) Resolve(ctx context.Context, code Code) (string, error) {
	if longURL, ok := s.cached(ctx, code); ok {
		s.metrics.CacheHit()

		if s.countCacheHits {
			s.recordHit(ctx, code)
		}

		return longURL, nil
	}

	s.metrics.CacheMiss()

	link, err := s.findByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.logger.Debug("short url not found", zap.String("code", string(code)))

			return "", ErrNotFound
		}

		s.logger.Error("failed to resolve short url", zap.String("code", string(code)), zap.Error(err))

		return "", fmt.Errorf("%w: %w", ErrResolutionFailure, err)
	}

	s.setCache(ctx, code, link.LongURL)
	s.recordHit(ctx, code)

	return link.LongURL, nil
}

// Preload copies the n most visited links into the cache and reports how many were cached.
// Failures are logged, never returned.
func (s *Service) Preload(ctx context.Context, n int) int {
	tctx, cancel := s.withTimeout(ctx)
	links, err := s.store.TopByHits(tctx, n)

	cancel()

	if err != nil {
		s.logger.Error("failed to load popular urls", zap.Int("count", n), zap.Error(err))

		return 0
	}

	cached := 0

	for _, link := range links {
		if !s.setCache(ctx, link.Code, link.LongURL) {
			continue
		}

		cached++

		s.logger.Info("preloaded url into cache",
			zap.String("code", string(link.Code)),
			zap.Int64("hitCount", link.HitCount),
		)
	}

	return cached
}

func (s *Service) ListAll(ctx context.Context) ([]*ShortLink, error) {
	tctx, cancel := s.withTimeout(ctx)
	defer cancel()

	links, err := s.store.FindAll(tctx)
	if err != nil {
		s.logger.Error("failed to list urls", zap.Error(err))

		return nil, fmt.Errorf("%w: %w", ErrRetrievalFailure, err)
	}

	return links, nil
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]*ShortLink, error) {
	tctx, cancel := s.withTimeout(ctx)
	defer cancel()

	links, err := s.store.FindByUser(tctx, userID)
	if err != nil {
		s.logger.Error("failed to list urls of user", zap.String("userId", userID), zap.Error(err))

		return nil, fmt.Errorf("%w: %w", ErrRetrievalFailure, err)
	}

	return links, nil
}

func (s *Service) cached(ctx context.Context, code Code) (string, bool) {
	tctx, cancel := s.withTimeout(ctx)
	defer cancel()

	longURL, ok, err := s.cache.Get(tctx, code)
	if err != nil {
		s.logger.Warn("cache read failed, falling back to store", zap.String("code", string(code)), zap.Error(err))

		return "", false
	}

	return longURL, ok
}

func (s *Service) setCache(ctx context.Context, code Code, longURL string) bool {
	tctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.cache.Set(tctx, code, longURL); err != nil {
		s.logger.Warn("cache write failed", zap.String("code", string(code)), zap.Error(err))

		return false
	}

	return true
}

func (s *Service) recordHit(ctx context.Context, code Code) {
	tctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.hits.RecordHit(tctx, code); err != nil {
		s.metrics.HitRecordFailed()
		s.logger.Warn("failed to record hit", zap.String("code", string(code)), zap.Error(err))
	}
}

func (s *Service) findByCode(ctx context.Context, code Code) (*ShortLink, error) {
	tctx, cancel := s.withTimeout(ctx)
	defer cancel()

	return s.store.FindByCode(tctx, code)
}

func (s *Service) findByLongURL(ctx context.Context, longURL string) (*ShortLink, error) {
	tctx, cancel := s.withTimeout(ctx)
	defer cancel()

	return s.store.FindByLongURL(tctx, longURL)
}

func (s *Service) insert(ctx context.Context, link *ShortLink) error {
	tctx, cancel := s.withTimeout(ctx)
	defer cancel()

	return s.store.Insert(tctx, link)
}

func (s *Service) creationFailure(longURL string, err error) error {
	s.logger.Error("failed to shorten url", zap.String("longUrl", longURL), zap.Error(err))

	return fmt.Errorf("%w: %w", ErrCreationFailure, err)
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, s.timeout)
}
