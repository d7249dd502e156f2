package policycache

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Borislavv/go-policy-cache/config"
	"github.com/Borislavv/go-policy-cache/hash"
	"github.com/Borislavv/go-policy-cache/policy"
	"github.com/Borislavv/go-policy-cache/policy/admission"
	"github.com/Borislavv/go-policy-cache/policy/constraint"
	"github.com/Borislavv/go-policy-cache/policy/eviction"
)

// NewLRU builds a byte-budgeted least-recently-used cache with
// unconditional admission.
func NewLRU[K comparable, V any](maximumMemory uint64, opts ...Option[K, V]) *Cache[K, V] {
	return New(
		admission.NewAlways[K, V](),
		eviction.NewLRU[K, V](),
		constraint.NewMemory[K, V](maximumMemory),
		opts...,
	)
}

// NewTinyLFU builds a byte-budgeted cache pairing TinyLFU admission with
// Segmented-LRU eviction: frequency sketches gate what may enter, the
// probation/protected split decides what goes first.
func NewTinyLFU[K comparable, V any](maximumMemory uint64, hasher hash.Hasher[K], opts ...Option[K, V]) *Cache[K, V] {
	return New(
		admission.NewTinyLFU[K, V](hasher),
		eviction.NewSegmentedLRU[K, V](),
		constraint.NewMemory[K, V](maximumMemory),
		opts...,
	)
}

// NewCustomCost builds a byte-budgeted GDSF cache. Favour it when the cost
// of a cache miss varies greatly from one item to the next.
func NewCustomCost[K comparable, V any](
	maximumMemory uint64,
	hasher hash.Hasher[K],
	cost eviction.CostFunc[K, V],
	opts ...Option[K, V],
) *Cache[K, V] {
	return New(
		admission.NewAlways[K, V](),
		eviction.NewGDSF[K, V](hasher, cost),
		constraint.NewMemory[K, V](maximumMemory),
		opts...,
	)
}

// FromConfig builds a fully wired cache from a YAML-loadable config: policy
// kind, constraint kind and budget, statistics window, thread-safety and
// optional telemetry. The cost function is consulted by the gdsf kind only
// and may be nil otherwise (nil defaults to a constant cost of 1).
func FromConfig[K comparable, V any](
	ctx context.Context,
	cfg *config.Cache,
	logger zerolog.Logger,
	hasher hash.Hasher[K],
	cost eviction.CostFunc[K, V],
	opts ...Option[K, V],
) (*Cache[K, V], error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("build cache from config: %w", err)
	}

	var con policy.Constraint[K, V]
	switch cfg.Constraint.Kind {
	case config.ConstraintMemory:
		con = constraint.NewMemory[K, V](cfg.Constraint.MaxBytes)
	case config.ConstraintCount:
		con = constraint.NewCount[K, V](cfg.Constraint.MaxItems)
	}

	var adm policy.Admission[K, V] = admission.NewAlways[K, V]()
	var evi policy.Eviction[K, V]

	switch cfg.Policy.Kind {
	case config.PolicyLRU:
		evi = eviction.NewLRU[K, V]()

	case config.PolicySegmentedLRU:
		slru := eviction.NewSegmentedLRU[K, V]()
		if cfg.Policy.ProtectedSegmentSize > 0 {
			slru.SetProtectedSegmentSize(cfg.Policy.ProtectedSegmentSize)
		}
		evi = slru

	case config.PolicyTinyLFU:
		lfu := admission.NewTinyLFU[K, V](hasher)
		lfu.SetCardinality(cfg.Policy.Cardinality)
		adm = lfu

		slru := eviction.NewSegmentedLRU[K, V]()
		if cfg.Policy.ProtectedSegmentSize > 0 {
			slru.SetProtectedSegmentSize(cfg.Policy.ProtectedSegmentSize)
		}
		evi = slru

	case config.PolicyGDSF:
		if cost == nil {
			cost = eviction.ConstantCost[K, V](1)
		}
		gdsf := eviction.NewGDSF[K, V](hasher, cost)
		gdsf.SetCardinality(cfg.Policy.Cardinality)
		evi = gdsf
	}

	opts = append(opts,
		WithStatisticsWindowSize[K, V](cfg.Statistics.WindowSize),
		WithLogger[K, V](logger),
	)
	if cfg.ThreadSafe {
		opts = append(opts, WithThreadSafe[K, V]())
	}

	c := New(adm, evi, con, opts...)

	if cfg.Telemetry.Enabled() {
		c.EnableTelemetry(ctx, cfg.Telemetry.Interval)
	}

	return c, nil
}
