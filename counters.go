package policycache

import "sync/atomic"

// counters accumulate over the cache lifetime and survive Clear. They are
// atomics so telemetry can snapshot them without taking the cache guard.
type counters struct {
	hits               atomic.Int64
	misses             atomic.Int64
	inserts            atomic.Int64
	updates            atomic.Int64
	evictions          atomic.Int64
	rejectedAdmission  atomic.Int64
	rejectedConstraint atomic.Int64
}

// CountersSnapshot is a point-in-time copy of the operation counters.
type CountersSnapshot struct {
	Hits               int64
	Misses             int64
	Inserts            int64
	Updates            int64
	Evictions          int64
	RejectedAdmission  int64
	RejectedConstraint int64
}

func (c *counters) snapshot() CountersSnapshot {
	return CountersSnapshot{
		Hits:               c.hits.Load(),
		Misses:             c.misses.Load(),
		Inserts:            c.inserts.Load(),
		Updates:            c.updates.Load(),
		Evictions:          c.evictions.Load(),
		RejectedAdmission:  c.rejectedAdmission.Load(),
		RejectedConstraint: c.rejectedConstraint.Load(),
	}
}

func (c *counters) exchange(other *counters) {
	swapInt64 := func(a, b *atomic.Int64) {
		av := a.Load()
		a.Store(b.Load())
		b.Store(av)
	}
	swapInt64(&c.hits, &other.hits)
	swapInt64(&c.misses, &other.misses)
	swapInt64(&c.inserts, &other.inserts)
	swapInt64(&c.updates, &other.updates)
	swapInt64(&c.evictions, &other.evictions)
	swapInt64(&c.rejectedAdmission, &other.rejectedAdmission)
	swapInt64(&c.rejectedConstraint, &other.rejectedConstraint)
}
