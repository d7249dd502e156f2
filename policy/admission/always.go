// Package admission implements the admission policies: Always, which lets
// everything through, and TinyLFU, which gates entry on estimated access
// frequency.
package admission

import (
	"github.com/Borislavv/go-policy-cache/policy"
)

// Always admits every candidate and approves every replacement. Stateless.
type Always[K comparable, V any] struct {
	policy.Base[K, V]
}

func NewAlways[K comparable, V any]() *Always[K, V] {
	return &Always[K, V]{}
}

func (*Always[K, V]) ShouldAdd(K) bool        { return true }
func (*Always[K, V]) ShouldReplace(K, K) bool { return true }

var _ policy.Admission[string, int] = (*Always[string, int])(nil)
