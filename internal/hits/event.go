// Package hits carries hit counter updates over a message broker so that
// resolutions do not wait on the store write.
package hits

import "time"

// TopicLinkHit is the topic HitEvents are published to.
const TopicLinkHit = "link.hit"

// ConsumerGroup is the Redis Streams consumer group of the hit counter.
const ConsumerGroup = "hit-counter"

// HitEvent records one successful resolution of a code.
type HitEvent struct {
	Code       string    `json:"code"`
	ResolvedAt time.Time `json:"resolvedAt"`
}
