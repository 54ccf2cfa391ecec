package ecs

import "github.com/rotisserie/eris"

// componentStore is the type-erased view the world keeps of every
// ComponentArray. Only the generic accessor that created a store downcasts it.
type componentStore interface {
	RemoveData(e Entity) bool
	EntityDestroyed(e Entity)
	HasData(e Entity) bool
	Len() int
	Entities() []Entity
	modCount() uint64
}

// ComponentArray is packed storage for a single component type. Live values
// occupy [0, Len()) with no gaps; removal moves the last value into the hole.
//
// A pointer returned by GetData is only good until the next InsertData or
// RemoveData on the same array: removal relocates the last element and
// insertion may reallocate the backing slice.
type ComponentArray[T any] struct {
	components  []T
	entities    []Entity
	entityIndex map[uint32]int
	mods        uint64
}

var _ componentStore = (*ComponentArray[struct{}])(nil)

func NewComponentArray[T any]() *ComponentArray[T] {
	return &ComponentArray[T]{entityIndex: make(map[uint32]int)}
}

// InsertData appends data for e. e must not already own a value here.
func (a *ComponentArray[T]) InsertData(e Entity, data T) {
	if _, ok := a.entityIndex[e.Index()]; ok {
		var zero T
		panic(eris.Wrapf(ErrDuplicateComponent, "%T on %s", zero, e))
	}
	a.entityIndex[e.Index()] = len(a.components)
	a.components = append(a.components, data)
	a.entities = append(a.entities, e)
	a.mods++
}

// RemoveData drops e's value if present and reports whether it did.
func (a *ComponentArray[T]) RemoveData(e Entity) bool {
	removed, ok := a.denseIndex(e)
	if !ok {
		return false
	}
	last := len(a.components) - 1
	if removed != last {
		a.components[removed] = a.components[last]
		a.entities[removed] = a.entities[last]
		a.entityIndex[a.entities[removed].Index()] = removed
	}
	var zero T
	a.components[last] = zero
	a.components = a.components[:last]
	a.entities = a.entities[:last]
	delete(a.entityIndex, e.Index())
	a.mods++
	return true
}

// GetData returns a pointer to e's value. It panics when e has none.
func (a *ComponentArray[T]) GetData(e Entity) *T {
	i, ok := a.denseIndex(e)
	if !ok {
		var zero T
		panic(eris.Wrapf(ErrMissingComponent, "%T on %s", zero, e))
	}
	return &a.components[i]
}

// HasData is false for stale handles even when their index is reused.
func (a *ComponentArray[T]) HasData(e Entity) bool {
	_, ok := a.denseIndex(e)
	return ok
}

func (a *ComponentArray[T]) EntityDestroyed(e Entity) {
	a.RemoveData(e)
}

func (a *ComponentArray[T]) Len() int {
	return len(a.components)
}

// Entities is the dense owner list, parallel to Components. Callers must not
// modify it.
func (a *ComponentArray[T]) Entities() []Entity {
	return a.entities
}

// Components is the dense value list, parallel to Entities.
func (a *ComponentArray[T]) Components() []T {
	return a.components
}

func (a *ComponentArray[T]) denseIndex(e Entity) (int, bool) {
	i, ok := a.entityIndex[e.Index()]
	if !ok || a.entities[i] != e {
		return 0, false
	}
	return i, true
}

func (a *ComponentArray[T]) modCount() uint64 {
	return a.mods
}
