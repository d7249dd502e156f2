package policycache

import "unsafe"

// Swap exchanges the entire observable state of two caches of the same
// type: store, policies, measurements, statistics and counters. The
// thread-safety mode, logger and metrics sink stay with their instance.
//
// When both caches are thread-safe the two guards are acquired in address
// order, which makes concurrent Swap(a, b) / Swap(b, a) deadlock-free.
func (c *Cache[K, V]) Swap(other *Cache[K, V]) {
	if c == other {
		return
	}

	first, second := c, other
	if uintptr(unsafe.Pointer(first)) > uintptr(unsafe.Pointer(second)) {
		first, second = second, first
	}
	first.lock()
	defer first.unlock()
	second.lock()
	defer second.unlock()

	c.items, other.items = other.items, c.items
	c.used, other.used = other.used, c.used

	c.admission, other.admission = other.admission, c.admission
	c.eviction, other.eviction = other.eviction, c.eviction
	c.constraint, other.constraint = other.constraint, c.constraint

	c.measureKey, other.measureKey = other.measureKey, c.measureKey
	c.measureValue, other.measureValue = other.measureValue, c.measureValue

	c.hitRate, other.hitRate = other.hitRate, c.hitRate
	c.byteHitRate, other.byteHitRate = other.byteHitRate, c.byteHitRate
	c.statsWindow, other.statsWindow = other.statsWindow, c.statsWindow

	c.counters.exchange(&other.counters)
}
