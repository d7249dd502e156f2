package policycache

import (
	"github.com/Borislavv/go-policy-cache/model"
)

// Insert stores the value under the key, routing the decision through the
// three policies. It returns false when admission or the constraint refuse;
// a refused insert leaves the cache unchanged and fires no events.
//
// When the constraint has no room, victims proposed by the eviction policy
// are evicted speculatively: the constraint is cloned and the whole victim
// sequence is validated against admission before any eviction commits, so a
// failing insert never costs resident entries.
func (c *Cache[K, V]) Insert(key K, value V) bool {
	c.lock()
	defer c.unlock()

	valueSize := c.measureValue(value)

	if old, ok := c.items[key]; ok {
		// Key size was measured at insert time and cannot have changed.
		next := model.NewItem(key, old.KeySize, value, valueSize)
		if !c.checkReplace(key, old, next) {
			return false
		}
		// The replacement plan may have evicted the original entry, in
		// which case the update degenerates to an insert.
		if current, stillThere := c.items[key]; stillThere {
			c.applyUpdate(key, current, next)
		} else {
			c.applyInsert(key, next)
		}
		return true
	}

	next := model.NewItem(key, c.measureKey(key), value, valueSize)
	if !c.checkInsert(key, next) {
		return false
	}
	c.applyInsert(key, next)
	return true
}

// checkInsert decides whether a new key may enter, evicting only when the
// constraint strictly requires it.
//
// With room available the gate is the admission policy's ShouldAdd. Without
// room, the constraint is cloned and victims are simulated one by one; each
// victim must lose to the candidate per ShouldReplace, and the walk stops
// at the first prefix that satisfies the clone. Only then do the collected
// evictions commit.
func (c *Cache[K, V]) checkInsert(key K, next *model.Item[K, V]) bool {
	if c.constraint.CanAdd(key, next) {
		if c.admission.ShouldAdd(key) {
			return true
		}
		c.counters.rejectedAdmission.Add(1)
		return false
	}

	clone := c.constraint.Clone()
	var pending []K
	satisfied := false

	for victim := range c.eviction.Victims() {
		victimItem, ok := c.items[victim]
		if !ok {
			panic("policycache: eviction policy yielded a non-resident key")
		}
		if !c.admission.ShouldReplace(victim, key) {
			c.counters.rejectedAdmission.Add(1)
			return false
		}
		clone.OnEvict(victim, victimItem)
		pending = append(pending, victim)
		if clone.CanAdd(key, next) {
			satisfied = true
			break
		}
	}

	if !satisfied {
		c.counters.rejectedConstraint.Add(1)
		return false
	}
	c.commitEvictions(pending)
	return true
}

// checkReplace decides whether a resident key may take a new value. The
// shape mirrors checkInsert, with two twists: while the original entry is
// still resident the clone is asked CanReplace, and once the victim walk
// consumes the original entry itself the remaining question becomes CanAdd.
// A victim equal to the candidate key is evicted without consulting
// admission: replacing yourself needs no preference decision.
func (c *Cache[K, V]) checkReplace(key K, old, next *model.Item[K, V]) bool {
	if c.constraint.CanReplace(key, old, next) {
		return true
	}

	clone := c.constraint.Clone()
	var pending []K
	originalEvicted := false
	satisfied := false

	for victim := range c.eviction.Victims() {
		victimItem, ok := c.items[victim]
		if !ok {
			panic("policycache: eviction policy yielded a non-resident key")
		}
		if victim == key {
			originalEvicted = true
		} else if !c.admission.ShouldReplace(victim, key) {
			c.counters.rejectedAdmission.Add(1)
			return false
		}
		clone.OnEvict(victim, victimItem)
		pending = append(pending, victim)

		if originalEvicted {
			satisfied = clone.CanAdd(key, next)
		} else {
			satisfied = clone.CanReplace(key, old, next)
		}
		if satisfied {
			break
		}
	}

	if !satisfied {
		c.counters.rejectedConstraint.Add(1)
		return false
	}
	c.commitEvictions(pending)
	return true
}

// commitEvictions performs the planned evictions in order. The victim walk
// has ended by the time this runs, so the eviction policy is free to
// restructure itself on every OnEvict.
func (c *Cache[K, V]) commitEvictions(pending []K) {
	for _, victim := range pending {
		item, ok := c.items[victim]
		if !ok {
			panic("policycache: planned eviction victim disappeared before commit")
		}
		c.evictLocked(victim, item)
	}
}
