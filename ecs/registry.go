package ecs

import (
	"reflect"

	"github.com/rotisserie/eris"
)

// ComponentID is a small dense integer assigned to each component type. It is
// used as a signature bit and as the index of the type's storage.
type ComponentID uint32

// MaxComponents is the number of distinct component types a registry can hold.
const MaxComponents = 128

// Registry assigns component IDs. IDs are handed out monotonically on first
// use of a type and never change for the registry's lifetime. A World owns one
// unless another is shared in with WithRegistry.
type Registry struct {
	ids   map[reflect.Type]ComponentID
	types []reflect.Type
}

func NewRegistry() *Registry {
	return &Registry{ids: make(map[reflect.Type]ComponentID)}
}

// TypeID returns the ID for T, registering it if needed.
func TypeID[T any](r *Registry) ComponentID {
	return r.idFor(reflect.TypeFor[T]())
}

func (r *Registry) idFor(t reflect.Type) ComponentID {
	if id, ok := r.ids[t]; ok {
		return id
	}
	if len(r.types) >= MaxComponents {
		panic(eris.Wrapf(ErrTooManyComponents, "registering %s", t))
	}
	id := ComponentID(len(r.types))
	r.ids[t] = id
	r.types = append(r.types, t)
	return id
}

// Lookup returns the ID of an already registered type without registering it.
func (r *Registry) Lookup(t reflect.Type) (ComponentID, bool) {
	id, ok := r.ids[t]
	return id, ok
}

// Type returns the Go type registered under id.
func (r *Registry) Type(id ComponentID) (reflect.Type, bool) {
	if int(id) >= len(r.types) {
		return nil, false
	}
	return r.types[id], true
}

// Name returns a readable name for id, used in logs and error messages.
func (r *Registry) Name(id ComponentID) string {
	t, ok := r.Type(id)
	if !ok {
		return "unknown"
	}
	return t.String()
}

func (r *Registry) Len() int {
	return len(r.types)
}
