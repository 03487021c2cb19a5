package hits

import (
	"context"
	"time"

	"github.com/Rithari/url-shortener/internal/messaging"
	"github.com/Rithari/url-shortener/internal/shortener"
)

var _ shortener.HitRecorder = (*PublishRecorder)(nil)

// PublishRecorder records hits by publishing a HitEvent per resolution.
type PublishRecorder struct {
	publish messaging.Publish[HitEvent]
	now     func() time.Time
}

func NewPublishRecorder(publish messaging.Publish[HitEvent]) *PublishRecorder {
	return &PublishRecorder{publish: publish, now: time.Now}
}

func (r *PublishRecorder) RecordHit(ctx context.Context, code shortener.Code) error {
	return r.publish(ctx, &HitEvent{
		Code:       string(code),
		ResolvedAt: r.now().UTC(),
	})
}
