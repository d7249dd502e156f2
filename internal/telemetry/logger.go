// Package telemetry emits periodic structured snapshots of cache activity.
package telemetry

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"

	"github.com/Borislavv/go-policy-cache/internal/shared/bytes"
)

// Stats is one point-in-time view of a cache, sampled by the logger.
type Stats struct {
	Entries            int
	Bytes              uint64
	HitRate            float64
	ByteHitRate        float64
	Hits               int64
	Misses             int64
	Inserts            int64
	Updates            int64
	Evictions          int64
	RejectedAdmission  int64
	RejectedConstraint int64
}

// Sampler is implemented by the cache.
type Sampler interface {
	TelemetryStats() Stats
}

// Logs periodically samples a cache and logs the deltas since the previous
// sample plus the current gauges. The clock is injected so tests can drive
// the ticker deterministically.
type Logs struct {
	ctx      context.Context
	cancel   context.CancelFunc
	log      zerolog.Logger
	clk      clock.Clock
	interval time.Duration
	sampler  Sampler
}

func New(ctx context.Context, log zerolog.Logger, clk clock.Clock, interval time.Duration, sampler Sampler) *Logs {
	ctx, cancel := context.WithCancel(ctx)
	l := &Logs{
		ctx:      ctx,
		cancel:   cancel,
		log:      log,
		clk:      clk,
		interval: interval,
		sampler:  sampler,
	}
	go l.loop()
	return l
}

func (l *Logs) Interval() time.Duration {
	return l.interval
}

func (l *Logs) Close() error {
	l.cancel()
	return nil
}

func (l *Logs) loop() {
	ticker := l.clk.Ticker(l.interval)
	defer ticker.Stop()

	prev := l.sampler.TelemetryStats()

	for {
		select {
		case <-l.ctx.Done():
			return

		case <-ticker.C:
			cur := l.sampler.TelemetryStats()

			l.log.Info().
				Str("interval", l.interval.String()).
				Int64("hits", cur.Hits-prev.Hits).
				Int64("misses", cur.Misses-prev.Misses).
				Int64("inserts", cur.Inserts-prev.Inserts).
				Int64("updates", cur.Updates-prev.Updates).
				Int64("evictions", cur.Evictions-prev.Evictions).
				Int64("rejected_admission", cur.RejectedAdmission-prev.RejectedAdmission).
				Int64("rejected_constraint", cur.RejectedConstraint-prev.RejectedConstraint).
				Msg("activity")

			l.log.Info().
				Str("interval", l.interval.String()).
				Int("entries", cur.Entries).
				Str("size", bytes.FmtMem(cur.Bytes)).
				Float64("hit_rate", cur.HitRate).
				Float64("byte_hit_rate", cur.ByteHitRate).
				Msg("storage")

			prev = cur
		}
	}
}
