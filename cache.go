// Package policycache is a policy-parameterised, in-process key/value cache
// core. A Cache coordinates a primary key->item store with three pluggable
// collaborators: an admission policy deciding whether a candidate may
// enter, an eviction policy producing victims in preferred order, and a
// constraint policy arbitrating whether the cache still fits its budget.
//
// Specialising the collaborators yields distinct caching schemes (classical
// LRU, Segmented-LRU with TinyLFU admission, GDSF cost-weighted eviction)
// without touching the core; see presets.go for the frequent combinations.
package policycache

import (
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Borislavv/go-policy-cache/internal/stats"
	"github.com/Borislavv/go-policy-cache/model"
	"github.com/Borislavv/go-policy-cache/policy"
)

// DefaultStatisticsWindowSize is the number of lookups the hit-rate and
// byte-hit-rate means roll over by default.
const DefaultStatisticsWindowSize uint32 = 1000

// Pair carries one cache entry when importing or collecting contents.
type Pair[K comparable, V any] struct {
	Key   K
	Value V
}

// Cache is the orchestrator. All public operations serialise on a single
// guard when the cache is built thread-safe; policy callbacks always run
// under that guard and are never invoked re-entrantly.
type Cache[K comparable, V any] struct {
	mu         sync.Mutex
	threadSafe bool

	items map[K]*model.Item[K, V]
	used  uint64 // sum of TotalSize over items

	admission  policy.Admission[K, V]
	eviction   policy.Eviction[K, V]
	constraint policy.Constraint[K, V]

	measureKey   MeasureFunc[K]
	measureValue MeasureFunc[V]

	hitRate     *stats.Rolling
	byteHitRate *stats.Rolling
	statsWindow uint32

	counters counters
	metrics  Metrics
	log      zerolog.Logger
	tele     io.Closer
}

// Option configures a Cache at construction.
type Option[K comparable, V any] func(*Cache[K, V])

// WithThreadSafe makes every public operation acquire the cache guard.
func WithThreadSafe[K comparable, V any]() Option[K, V] {
	return func(c *Cache[K, V]) { c.threadSafe = true }
}

// WithMeasureKey overrides the key size measurement.
func WithMeasureKey[K comparable, V any](measure MeasureFunc[K]) Option[K, V] {
	return func(c *Cache[K, V]) { c.measureKey = measure }
}

// WithMeasureValue overrides the value size measurement.
func WithMeasureValue[K comparable, V any](measure MeasureFunc[V]) Option[K, V] {
	return func(c *Cache[K, V]) { c.measureValue = measure }
}

// WithStatisticsWindowSize sets the rolling window of the hit-rate and
// byte-hit-rate accumulators.
func WithStatisticsWindowSize[K comparable, V any](window uint32) Option[K, V] {
	return func(c *Cache[K, V]) { c.statsWindow = window }
}

// WithLogger attaches the logger that telemetry snapshots are written to.
func WithLogger[K comparable, V any](log zerolog.Logger) Option[K, V] {
	return func(c *Cache[K, V]) { c.log = log }
}

// WithMetrics attaches a metrics sink; see metrics/prom for the prometheus
// adapter.
func WithMetrics[K comparable, V any](m Metrics) Option[K, V] {
	return func(c *Cache[K, V]) { c.metrics = m }
}

// New builds a cache from its three policy collaborators. Key and value
// sizes default to the static in-memory size of the type; byte-budgeted
// caches holding variable-size values should override the measurements.
func New[K comparable, V any](
	admission policy.Admission[K, V],
	eviction policy.Eviction[K, V],
	constraint policy.Constraint[K, V],
	opts ...Option[K, V],
) *Cache[K, V] {
	c := &Cache[K, V]{
		items:        make(map[K]*model.Item[K, V]),
		admission:    admission,
		eviction:     eviction,
		constraint:   constraint,
		measureKey:   SizeOf[K](),
		measureValue: SizeOf[V](),
		statsWindow:  DefaultStatisticsWindowSize,
		metrics:      NoopMetrics{},
		log:          zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.hitRate = stats.NewRolling(c.statsWindow)
	c.byteHitRate = stats.NewRolling(c.statsWindow)
	return c
}

// FromSlice builds a cache and imports pairs in order while the constraint
// admits them, stopping silently at the first rejection.
func FromSlice[K comparable, V any](
	pairs []Pair[K, V],
	admission policy.Admission[K, V],
	eviction policy.Eviction[K, V],
	constraint policy.Constraint[K, V],
	opts ...Option[K, V],
) *Cache[K, V] {
	c := New(admission, eviction, constraint, opts...)
	c.importPairs(pairs)
	return c
}

// FromMap builds a cache and imports the map's entries while the constraint
// admits them, stopping silently at the first rejection. Map iteration
// order decides which entries make it in when the budget is too small for
// all of them.
func FromMap[K comparable, V any](
	entries map[K]V,
	admission policy.Admission[K, V],
	eviction policy.Eviction[K, V],
	constraint policy.Constraint[K, V],
	opts ...Option[K, V],
) *Cache[K, V] {
	pairs := make([]Pair[K, V], 0, len(entries))
	for key, value := range entries {
		pairs = append(pairs, Pair[K, V]{Key: key, Value: value})
	}
	return FromSlice(pairs, admission, eviction, constraint, opts...)
}

// Find looks the key up, records a hit or miss sample and notifies the
// policies of the observation. The value is returned by Go copy semantics;
// it never aliases cache-owned state after the call returns.
func (c *Cache[K, V]) Find(key K) (V, bool) {
	c.lock()
	defer c.unlock()

	if item, ok := c.items[key]; ok {
		c.hitRate.Record(1)
		c.byteHitRate.Record(float64(item.ValueSize))
		c.counters.hits.Add(1)
		c.metrics.Hit()
		c.dispatchCacheHit(key, item)
		return item.Value, true
	}

	c.hitRate.Record(0)
	c.byteHitRate.Record(0)
	c.counters.misses.Add(1)
	c.metrics.Miss()
	c.dispatchCacheMiss(key)

	var zero V
	return zero, false
}

// Contains reports residency without recording a sample or notifying any
// policy.
func (c *Cache[K, V]) Contains(key K) bool {
	c.lock()
	defer c.unlock()

	_, ok := c.items[key]
	return ok
}

// Remove erases the key if resident, dispatching OnEvict first. Reports
// whether the key was present.
func (c *Cache[K, V]) Remove(key K) bool {
	c.lock()
	defer c.unlock()

	item, ok := c.items[key]
	if !ok {
		return false
	}
	c.evictLocked(key, item)
	return true
}

// Clear erases the store, clears every policy and resets the statistics
// accumulators.
func (c *Cache[K, V]) Clear() {
	c.lock()
	defer c.unlock()

	c.items = make(map[K]*model.Item[K, V])
	c.used = 0
	c.admission.Clear()
	c.eviction.Clear()
	c.constraint.Clear()
	c.hitRate.Reset()
	c.byteHitRate.Reset()
	c.metrics.Size(0, 0)
}

// Retain keeps only the entries the predicate approves; every rejected
// entry is evicted with the usual OnEvict dispatch. The predicate runs
// under the cache guard and must not re-enter the cache.
func (c *Cache[K, V]) Retain(predicate func(key K, value V) bool) {
	c.lock()
	defer c.unlock()

	for key, item := range c.items {
		if !predicate(key, item.Value) {
			c.evictLocked(key, item)
		}
	}
}

// ForEach invokes fn for every resident entry under the cache guard. fn
// must not re-enter the cache.
func (c *Cache[K, V]) ForEach(fn func(key K, value V)) {
	c.lock()
	defer c.unlock()

	for key, item := range c.items {
		fn(key, item.Value)
	}
}

// CollectIntoMap copies every entry into dst by key.
func (c *Cache[K, V]) CollectIntoMap(dst map[K]V) {
	c.lock()
	defer c.unlock()

	for key, item := range c.items {
		dst[key] = item.Value
	}
}

// CollectIntoSlice appends every entry to dst, growing it once up front.
func (c *Cache[K, V]) CollectIntoSlice(dst []Pair[K, V]) []Pair[K, V] {
	c.lock()
	defer c.unlock()

	if cap(dst)-len(dst) < len(c.items) {
		grown := make([]Pair[K, V], len(dst), len(dst)+len(c.items))
		copy(grown, dst)
		dst = grown
	}
	for key, item := range c.items {
		dst = append(dst, Pair[K, V]{Key: key, Value: item.Value})
	}
	return dst
}

// UpdateConstraint applies update to the constraint under the guard, then
// evicts victims until the constraint is satisfied again. The eviction
// sequence is re-opened after every removal since evicting invalidates it.
//
// Panics if the eviction policy exhausts its victims while the constraint
// is still violated: Victims() is required to enumerate every resident key.
func (c *Cache[K, V]) UpdateConstraint(update func(constraint policy.Constraint[K, V])) {
	c.lock()
	defer c.unlock()

	update(c.constraint)

	for !c.constraint.IsSatisfied() {
		key, ok := c.firstVictim()
		if !ok {
			panic("policycache: eviction policy exhausted while constraint is violated")
		}
		item, ok := c.items[key]
		if !ok {
			panic("policycache: eviction policy yielded a non-resident key")
		}
		c.evictLocked(key, item)
	}
}

// NumberOfItems returns the number of resident entries.
func (c *Cache[K, V]) NumberOfItems() int {
	c.lock()
	defer c.unlock()

	return len(c.items)
}

// Size returns the summed measured size of resident entries in bytes.
func (c *Cache[K, V]) Size() uint64 {
	c.lock()
	defer c.unlock()

	return c.used
}

// HitRate is the rolling mean of hit samples (1 per hit, 0 per miss) over
// the statistics window.
func (c *Cache[K, V]) HitRate() float64 {
	c.lock()
	defer c.unlock()

	return c.hitRate.Mean()
}

// ByteHitRate is the rolling mean of value bytes returned per lookup over
// the statistics window.
func (c *Cache[K, V]) ByteHitRate() float64 {
	c.lock()
	defer c.unlock()

	return c.byteHitRate.Mean()
}

// StatisticsWindowSize returns the current rolling window.
func (c *Cache[K, V]) StatisticsWindowSize() uint32 {
	c.lock()
	defer c.unlock()

	return c.statsWindow
}

// SetStatisticsWindowSize rebuilds both accumulators with a new window,
// discarding recorded samples.
func (c *Cache[K, V]) SetStatisticsWindowSize(window uint32) {
	c.lock()
	defer c.unlock()

	c.statsWindow = window
	c.hitRate = stats.NewRolling(window)
	c.byteHitRate = stats.NewRolling(window)
}

// Counters returns a snapshot of the cumulative operation counters.
func (c *Cache[K, V]) Counters() CountersSnapshot {
	return c.counters.snapshot()
}

// AdmissionPolicy returns the admission collaborator for configuration
// (e.g. TinyLFU cardinality). Mutating policy state concurrently with cache
// use is the caller's responsibility.
func (c *Cache[K, V]) AdmissionPolicy() policy.Admission[K, V] { return c.admission }

// EvictionPolicy returns the eviction collaborator for configuration
// (e.g. the Segmented-LRU protected segment size).
func (c *Cache[K, V]) EvictionPolicy() policy.Eviction[K, V] { return c.eviction }

// ConstraintPolicy returns the constraint collaborator.
func (c *Cache[K, V]) ConstraintPolicy() policy.Constraint[K, V] { return c.constraint }

// Close stops the background telemetry, if any was attached.
func (c *Cache[K, V]) Close() error {
	if c.tele != nil {
		return c.tele.Close()
	}
	return nil
}

/**
 * Private API.
 */

func (c *Cache[K, V]) lock() {
	if c.threadSafe {
		c.mu.Lock()
	}
}

func (c *Cache[K, V]) unlock() {
	if c.threadSafe {
		c.mu.Unlock()
	}
}

// evictLocked removes one entry: policies are notified strictly before the
// store erases it, in the fixed admission -> eviction -> constraint order.
func (c *Cache[K, V]) evictLocked(key K, item *model.Item[K, V]) {
	c.dispatchEvict(key, item)
	delete(c.items, key)
	c.used -= item.TotalSize
	c.counters.evictions.Add(1)
	c.metrics.Evict()
	c.metrics.Size(len(c.items), c.used)
}

func (c *Cache[K, V]) firstVictim() (K, bool) {
	for key := range c.eviction.Victims() {
		return key, true
	}
	var zero K
	return zero, false
}

func (c *Cache[K, V]) importPairs(pairs []Pair[K, V]) {
	c.lock()
	defer c.unlock()

	for i := range pairs {
		key := pairs[i].Key
		keySize := c.measureKey(key)
		valueSize := c.measureValue(pairs[i].Value)

		if old, ok := c.items[key]; ok {
			next := model.NewItem(key, old.KeySize, pairs[i].Value, valueSize)
			if !c.constraint.CanReplace(key, old, next) {
				return
			}
			c.applyUpdate(key, old, next)
			continue
		}

		next := model.NewItem(key, keySize, pairs[i].Value, valueSize)
		if !c.constraint.CanAdd(key, next) {
			return
		}
		c.applyInsert(key, next)
	}
}

func (c *Cache[K, V]) applyInsert(key K, item *model.Item[K, V]) {
	c.items[key] = item
	c.used += item.TotalSize
	c.dispatchInsert(key, item)
	c.counters.inserts.Add(1)
	c.metrics.Size(len(c.items), c.used)
}

func (c *Cache[K, V]) applyUpdate(key K, old, next *model.Item[K, V]) {
	c.items[key] = next
	c.used = c.used - old.TotalSize + next.TotalSize
	c.dispatchUpdate(key, old, next)
	c.counters.updates.Add(1)
	c.metrics.Size(len(c.items), c.used)
}

// Dispatch helpers: each event goes to each policy exactly once, in the
// fixed admission -> eviction -> constraint order.

func (c *Cache[K, V]) dispatchCacheHit(key K, item *model.Item[K, V]) {
	c.admission.OnCacheHit(key, item)
	c.eviction.OnCacheHit(key, item)
	c.constraint.OnCacheHit(key, item)
}

func (c *Cache[K, V]) dispatchCacheMiss(key K) {
	c.admission.OnCacheMiss(key)
	c.eviction.OnCacheMiss(key)
	c.constraint.OnCacheMiss(key)
}

func (c *Cache[K, V]) dispatchInsert(key K, item *model.Item[K, V]) {
	c.admission.OnInsert(key, item)
	c.eviction.OnInsert(key, item)
	c.constraint.OnInsert(key, item)
}

func (c *Cache[K, V]) dispatchUpdate(key K, old, next *model.Item[K, V]) {
	c.admission.OnUpdate(key, old, next)
	c.eviction.OnUpdate(key, old, next)
	c.constraint.OnUpdate(key, old, next)
}

func (c *Cache[K, V]) dispatchEvict(key K, item *model.Item[K, V]) {
	c.admission.OnEvict(key, item)
	c.eviction.OnEvict(key, item)
	c.constraint.OnEvict(key, item)
}
