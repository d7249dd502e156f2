package policycache

import (
	"unsafe"

	"github.com/Borislavv/go-policy-cache/model"
)

// Item re-exports the cached item record handed to policies.
type Item[K comparable, V any] = model.Item[K, V]

// MeasureFunc returns the size in bytes attributed to a key or value. It
// must be pure: deterministic with respect to an unchanged argument. The
// cache calls it on the paths that store a size and caches the result on
// the item.
type MeasureFunc[T any] func(T) uint64

// SizeOf measures every instance as the static in-memory size of T. This is
// the default measurement; types owning indirect storage (strings, slices,
// maps) should use a content-aware measure instead.
func SizeOf[T any]() MeasureFunc[T] {
	var zero T
	size := uint64(unsafe.Sizeof(zero))
	return func(T) uint64 { return size }
}

// StringLen measures a string by its byte length.
func StringLen(s string) uint64 { return uint64(len(s)) }

// BytesLen measures a byte slice by its length.
func BytesLen(b []byte) uint64 { return uint64(len(b)) }
