package container

import (
	"errors"
	"fmt"
	"math"
)

// ErrStaleRelease is the panic value wrapped when a pool is asked to release a
// handle that is no longer valid.
var ErrStaleRelease = errors.New("container: release of stale handle")

const indexBits = 32

// Handle is a 64-bit versioned key: the low 32 bits hold a slot index and the
// high 32 bits the slot version at allocation time. T only brands the handle so
// handles from unrelated pools cannot be mixed up.
type Handle[T any] struct {
	value uint64
}

const invalidValue = math.MaxUint64

// Invalid returns the reserved all-ones handle.
func Invalid[T any]() Handle[T] {
	return Handle[T]{value: invalidValue}
}

// MakeHandle packs an index and version into a handle.
func MakeHandle[T any](index, version uint32) Handle[T] {
	return Handle[T]{value: uint64(version)<<indexBits | uint64(index)}
}

// FromBits rebuilds a handle from its raw representation.
func FromBits[T any](v uint64) Handle[T] {
	return Handle[T]{value: v}
}

func (h Handle[T]) Index() uint32 {
	return uint32(h.value)
}

func (h Handle[T]) Version() uint32 {
	return uint32(h.value >> indexBits)
}

func (h Handle[T]) Bits() uint64 {
	return h.value
}

// Valid reports whether h could have been issued by a pool. Pools never issue
// version 0, so the zero value is invalid along with the all-ones sentinel.
// Valid says nothing about whether the slot has since been released.
func (h Handle[T]) Valid() bool {
	return h.value != invalidValue && h.Version() != 0
}

func (h Handle[T]) String() string {
	if !h.Valid() {
		return "Handle(invalid)"
	}
	return fmt.Sprintf("Handle(%d:%d)", h.Index(), h.Version())
}

// HandlePool hands out handles over a fixed number of slots. Releasing a handle
// bumps its slot version, so every copy of the old handle becomes stale.
//
// Versions are 32 bits wide. A slot released 2^32 times wraps and a very old
// stale handle could then alias a live one; this is not guarded against.
type HandlePool[T any] struct {
	versions []uint32
	free     []uint32
}

// NewHandlePool creates a pool with capacity slots. Index 0 is handed out first.
func NewHandlePool[T any](capacity uint32) *HandlePool[T] {
	if capacity == 0 {
		panic("container: handle pool capacity must be positive")
	}
	p := &HandlePool[T]{
		versions: make([]uint32, capacity),
		free:     make([]uint32, capacity),
	}
	for i := uint32(0); i < capacity; i++ {
		p.versions[i] = 1
		p.free[i] = capacity - 1 - i
	}
	return p
}

// Allocate pops a free slot. It returns an invalid handle when the pool is full.
func (p *HandlePool[T]) Allocate() Handle[T] {
	n := len(p.free)
	if n == 0 {
		return Invalid[T]()
	}
	index := p.free[n-1]
	p.free = p.free[:n-1]
	return MakeHandle[T](index, p.versions[index])
}

// Release invalidates h and returns its slot to the free stack. Invalid handles
// are ignored; releasing a stale handle is a programming error and panics.
func (p *HandlePool[T]) Release(h Handle[T]) {
	if !h.Valid() {
		return
	}
	if !p.IsValid(h) {
		panic(fmt.Errorf("%w: %s", ErrStaleRelease, h))
	}
	index := h.Index()
	p.versions[index]++
	if p.versions[index] == 0 {
		p.versions[index] = 1
	}
	p.free = append(p.free, index)
}

// IsValid reports whether h refers to a currently allocated slot.
func (p *HandlePool[T]) IsValid(h Handle[T]) bool {
	if !h.Valid() {
		return false
	}
	index := h.Index()
	if index >= uint32(len(p.versions)) {
		return false
	}
	return p.versions[index] == h.Version()
}

func (p *HandlePool[T]) Capacity() uint32 {
	return uint32(len(p.versions))
}

func (p *HandlePool[T]) FreeCount() uint32 {
	return uint32(len(p.free))
}

func (p *HandlePool[T]) UsedCount() uint32 {
	return p.Capacity() - p.FreeCount()
}
