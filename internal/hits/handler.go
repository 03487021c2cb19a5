package hits

import (
	"context"

	"github.com/Rithari/url-shortener/internal/messaging"
	"github.com/Rithari/url-shortener/internal/shortener"
	"go.uber.org/zap"
)

// NewIncrementHandler applies each HitEvent to the store's hit counter.
func NewIncrementHandler(store shortener.Repository, logger *zap.Logger) messaging.Handler[HitEvent] {
	return func(ctx context.Context, event *HitEvent) error {
		if event.Code == "" {
			logger.Warn("skipping hit event without code", zap.Time("resolvedAt", event.ResolvedAt))

			return nil
		}

		if err := store.IncrementHitCount(ctx, shortener.Code(event.Code)); err != nil {
			return err
		}

		logger.Debug("hit counted", zap.String("code", event.Code))

		return nil
	}
}
