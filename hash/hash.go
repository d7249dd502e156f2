// Package hash defines the hashing contract shared by the cache and its
// frequency sketches. Every probabilistic structure in this module is keyed
// by a single 64-bit hash, so any probe type whose hasher agrees with the
// stored key's hasher observes the same sketch state.
package hash

import (
	"github.com/zeebo/xxh3"
)

// Hasher produces a stable 64-bit hash for a key. Implementations must be
// deterministic for the lifetime of a cache: the sketches derive all of
// their probe indices from this single value.
type Hasher[K any] interface {
	Hash(key K) uint64
}

// Func adapts a plain function to the Hasher interface.
type Func[K any] func(K) uint64

func (f Func[K]) Hash(key K) uint64 { return f(key) }

// String hashes string keys with xxh3.
type String struct{}

func (String) Hash(key string) uint64 { return xxh3.HashString(key) }

// Bytes hashes byte-slice keys with xxh3. Hash(b) agrees with
// String.Hash(string(b)) for equal contents, so []byte probes can stand in
// for string keys at the sketch level.
type Bytes struct{}

func (Bytes) Hash(key []byte) uint64 { return xxh3.Hash(key) }

// Uint64 uses the key itself as its hash, matching the identity hashing of
// integral keys. Sketch probe streams mix the seed before use, so identity
// is sufficient here.
type Uint64 struct{}

func (Uint64) Hash(key uint64) uint64 { return key }

// Int hashes int keys by identity.
type Int struct{}

func (Int) Hash(key int) uint64 { return uint64(key) }
