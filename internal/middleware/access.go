package middleware

import (
	"net"
	"strings"
	"time"

	"github.com/Rithari/url-shortener/internal/metrics"
	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"
)

// AccessLog logs every finished request and records it in m.
func AccessLog(logger *zap.Logger, m *metrics.Metrics) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		start := time.Now()

		next(ctx)

		elapsed := time.Since(start)
		status := ctx.Status()
		operation := operationID(ctx)

		m.ObserveRequest(operation, ctx.Method(), status, elapsed)

		fields := []zap.Field{
			zap.String("operation", operation),
			zap.String("method", ctx.Method()),
			zap.String("path", ctx.URL().Path),
			zap.Int("status", status),
			zap.Duration("elapsed", elapsed),
			zap.String("clientIp", ClientIP(ctx)),
			zap.String("userAgent", ctx.Header("User-Agent")),
		}

		if status >= 500 {
			logger.Warn("request served", fields...)

			return
		}

		logger.Info("request served", fields...)
	}
}

func operationID(ctx huma.Context) string {
	if op := ctx.Operation(); op != nil && op.OperationID != "" {
		return op.OperationID
	}

	return "unknown"
}

// ClientIP returns the originating client address, honouring proxy headers.
func ClientIP(ctx huma.Context) string {
	if xff := ctx.Header("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")

		return strings.TrimSpace(first)
	}

	if xri := ctx.Header("X-Real-IP"); xri != "" {
		return xri
	}

	addr := ctx.RemoteAddr()
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}

	return addr
}
