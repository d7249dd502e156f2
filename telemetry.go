package policycache

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/Borislavv/go-policy-cache/internal/telemetry"
)

// TelemetryStats samples the cache for the telemetry logger.
func (c *Cache[K, V]) TelemetryStats() telemetry.Stats {
	c.lock()
	entries := len(c.items)
	used := c.used
	hitRate := c.hitRate.Mean()
	byteHitRate := c.byteHitRate.Mean()
	c.unlock()

	snap := c.counters.snapshot()
	return telemetry.Stats{
		Entries:            entries,
		Bytes:              used,
		HitRate:            hitRate,
		ByteHitRate:        byteHitRate,
		Hits:               snap.Hits,
		Misses:             snap.Misses,
		Inserts:            snap.Inserts,
		Updates:            snap.Updates,
		Evictions:          snap.Evictions,
		RejectedAdmission:  snap.RejectedAdmission,
		RejectedConstraint: snap.RejectedConstraint,
	}
}

// EnableTelemetry starts the periodic snapshot logger against the cache
// logger. It runs until ctx is cancelled or Close is called.
func (c *Cache[K, V]) EnableTelemetry(ctx context.Context, interval time.Duration) {
	c.tele = telemetry.New(ctx, c.log, clock.New(), interval, c)
}
