package ecs

import (
	"math/bits"
	"strconv"
	"strings"
)

// Signature is a bitset over component IDs. Bit i is set when the entity owns
// (or the system requires) the component whose ID is i.
type Signature [MaxComponents / 64]uint64

// NewSignature returns a signature with the given bits set.
func NewSignature(ids ...ComponentID) Signature {
	var s Signature
	for _, id := range ids {
		s.Set(id)
	}
	return s
}

func (s *Signature) Set(id ComponentID) {
	s[id/64] |= 1 << (id % 64)
}

func (s *Signature) Clear(id ComponentID) {
	s[id/64] &^= 1 << (id % 64)
}

func (s Signature) Has(id ComponentID) bool {
	if id >= MaxComponents {
		return false
	}
	return s[id/64]&(1<<(id%64)) != 0
}

// Contains reports whether every bit of required is also set in s.
func (s Signature) Contains(required Signature) bool {
	for i := range s {
		if s[i]&required[i] != required[i] {
			return false
		}
	}
	return true
}

func (s Signature) IsZero() bool {
	for _, w := range s {
		if w != 0 {
			return false
		}
	}
	return true
}

func (s Signature) Count() int {
	n := 0
	for _, w := range s {
		n += bits.OnesCount64(w)
	}
	return n
}

// IDs lists the set bits in ascending order.
func (s Signature) IDs() []ComponentID {
	out := make([]ComponentID, 0, s.Count())
	for i, w := range s {
		for w != 0 {
			b := bits.TrailingZeros64(w)
			out = append(out, ComponentID(i*64+b))
			w &= w - 1
		}
	}
	return out
}

func (s Signature) String() string {
	ids := s.IDs()
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	return "{" + strings.Join(parts, ",") + "}"
}
