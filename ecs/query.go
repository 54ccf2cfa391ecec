package ecs

import (
	"iter"

	"github.com/rotisserie/eris"
)

// EntityQuery lazily yields the entities owning every queried component. It
// walks the packed array of the first component type and checks the others
// per entity, so list the rarest component first.
//
// Adding or removing the first component type while a query is in progress
// panics with ErrQueryInvalidated. Changing component values is fine.
type EntityQuery struct {
	w       *World
	first   ComponentID
	others  []ComponentID
	store   componentStore
	pos     int
	mods    uint64
	current Entity
}

// Query matches entities owning an A.
func Query[A any](w *World) *EntityQuery {
	return newQuery(w, ComponentIDOf[A](w))
}

// Query2 matches entities owning an A and a B.
func Query2[A, B any](w *World) *EntityQuery {
	return newQuery(w, ComponentIDOf[A](w), ComponentIDOf[B](w))
}

func Query3[A, B, C any](w *World) *EntityQuery {
	return newQuery(w, ComponentIDOf[A](w), ComponentIDOf[B](w), ComponentIDOf[C](w))
}

func Query4[A, B, C, D any](w *World) *EntityQuery {
	return newQuery(w, ComponentIDOf[A](w), ComponentIDOf[B](w), ComponentIDOf[C](w), ComponentIDOf[D](w))
}

// QueryIDs is the untyped form used by tools that only know component IDs.
func QueryIDs(w *World, first ComponentID, others ...ComponentID) *EntityQuery {
	return newQuery(w, first, others...)
}

func newQuery(w *World, first ComponentID, others ...ComponentID) *EntityQuery {
	return &EntityQuery{w: w, first: first, others: others, current: InvalidEntity}
}

// Next advances to the next matching entity and reports whether there is one.
func (q *EntityQuery) Next() bool {
	if q.store == nil {
		// storage is created on first Add, possibly after the query was built
		q.store = q.w.stores[q.first]
		if q.store == nil {
			return false
		}
		q.mods = q.store.modCount()
	}
	if q.store.modCount() != q.mods {
		q.w.fail(eris.Wrapf(ErrQueryInvalidated, "%s", q.w.registry.Name(q.first)))
	}
	entities := q.store.Entities()
	for q.pos < len(entities) {
		e := entities[q.pos]
		q.pos++
		if q.matches(e) {
			q.current = e
			return true
		}
	}
	q.current = InvalidEntity
	return false
}

// Entity returns the entity Next stopped on.
func (q *EntityQuery) Entity() Entity {
	return q.current
}

// Reset rewinds the query so it can be walked again.
func (q *EntityQuery) Reset() {
	q.store = nil
	q.pos = 0
	q.current = InvalidEntity
}

// All rewinds the query and ranges over it.
func (q *EntityQuery) All() iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		q.Reset()
		for q.Next() {
			if !yield(q.current) {
				return
			}
		}
	}
}

// Collect rewinds the query and gathers every match.
func (q *EntityQuery) Collect() []Entity {
	var out []Entity
	for e := range q.All() {
		out = append(out, e)
	}
	return out
}

// Count rewinds the query and counts the matches.
func (q *EntityQuery) Count() int {
	n := 0
	for range q.All() {
		n++
	}
	return n
}

func (q *EntityQuery) matches(e Entity) bool {
	for _, id := range q.others {
		if !q.w.HasComponentID(e, id) {
			return false
		}
	}
	return true
}
