package messaging_test

import (
	"errors"
	"testing"

	"github.com/Rithari/url-shortener/internal/messaging"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := messaging.NewZapLogger(zap.New(core))

	logger.Info("subscribed", watermill.LogFields{"topic": "link.hit"})
	logger.With(watermill.LogFields{"consumer": "c1"}).Error("read failed", errors.New("boom"), nil)
	logger.Trace("polling", nil)

	entries := logs.All()
	require.Len(t, entries, 3)

	assert.Equal(t, "subscribed", entries[0].Message)
	assert.Equal(t, "link.hit", entries[0].ContextMap()["topic"])

	assert.Equal(t, zap.ErrorLevel, entries[1].Level)
	assert.Equal(t, "c1", entries[1].ContextMap()["consumer"])
	assert.Equal(t, "boom", entries[1].ContextMap()["error"])

	assert.Equal(t, zap.DebugLevel, entries[2].Level)
}
