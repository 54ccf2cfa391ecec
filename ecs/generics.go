package ecs

import (
	"reflect"

	"github.com/rotisserie/eris"
)

// ComponentIDOf returns the ID of T in w's registry, registering T on first use.
func ComponentIDOf[T any](w *World) ComponentID {
	return TypeID[T](w.registry)
}

// SignatureOf builds a system signature from component types.
func SignatureOf[A any](w *World) Signature {
	return NewSignature(ComponentIDOf[A](w))
}

func SignatureOf2[A, B any](w *World) Signature {
	return NewSignature(ComponentIDOf[A](w), ComponentIDOf[B](w))
}

func SignatureOf3[A, B, C any](w *World) Signature {
	return NewSignature(ComponentIDOf[A](w), ComponentIDOf[B](w), ComponentIDOf[C](w))
}

// Add attaches value to e. Adding a component e already has is a contract
// violation and panics; use Set to overwrite.
func Add[T any](w *World, e Entity, value T) error {
	if !w.IsAlive(e) {
		return eris.Wrapf(ErrEntityNotAlive, "add %s to %s", reflect.TypeFor[T](), e)
	}
	id := ComponentIDOf[T](w)
	arr := arrayOf[T](w, id, true)
	if arr.HasData(e) {
		w.fail(eris.Wrapf(ErrDuplicateComponent, "%s on %s", w.registry.Name(id), e))
	}
	arr.InsertData(e, value)
	w.componentAdded(e, id)
	return nil
}

// Set overwrites e's T, adding it if absent.
func Set[T any](w *World, e Entity, value T) error {
	if !w.IsAlive(e) {
		return eris.Wrapf(ErrEntityNotAlive, "set %s on %s", reflect.TypeFor[T](), e)
	}
	id := ComponentIDOf[T](w)
	arr := arrayOf[T](w, id, true)
	if arr.HasData(e) {
		*arr.GetData(e) = value
		return nil
	}
	arr.InsertData(e, value)
	w.componentAdded(e, id)
	return nil
}

// Remove detaches T from e and reports whether it was present.
func Remove[T any](w *World, e Entity) bool {
	id, ok := w.registry.Lookup(reflect.TypeFor[T]())
	if !ok {
		return false
	}
	return w.RemoveComponentID(e, id)
}

// Has reports whether e is alive and owns a T. Stale handles report false.
func Has[T any](w *World, e Entity) bool {
	id, ok := w.registry.Lookup(reflect.TypeFor[T]())
	if !ok {
		return false
	}
	return w.HasComponentID(e, id)
}

// Get returns a copy of e's T. It panics when e has no T; use TryGet when
// absence is expected.
func Get[T any](w *World, e Entity) T {
	return *Ref[T](w, e)
}

// TryGet returns a copy of e's T and whether it was present.
func TryGet[T any](w *World, e Entity) (T, bool) {
	var zero T
	if !Has[T](w, e) {
		return zero, false
	}
	id, _ := w.registry.Lookup(reflect.TypeFor[T]())
	return *arrayOf[T](w, id, false).GetData(e), true
}

// Ref borrows e's T in place. The pointer is invalidated by any later Add,
// Set-insert, Remove or DestroyEntity touching T's storage, because removal
// moves the last element into the freed slot. Never keep it across such calls.
// Ref panics when e has no T.
func Ref[T any](w *World, e Entity) *T {
	if !Has[T](w, e) {
		w.fail(eris.Wrapf(ErrMissingComponent, "%s on %s", reflect.TypeFor[T](), e))
	}
	id, _ := w.registry.Lookup(reflect.TypeFor[T]())
	return arrayOf[T](w, id, false).GetData(e)
}

// Array exposes T's packed storage for contiguous iteration. It returns nil
// when no T was ever added.
func Array[T any](w *World) *ComponentArray[T] {
	id, ok := w.registry.Lookup(reflect.TypeFor[T]())
	if !ok {
		return nil
	}
	return arrayOf[T](w, id, false)
}

func arrayOf[T any](w *World, id ComponentID, create bool) *ComponentArray[T] {
	s := w.stores[id]
	if s == nil {
		if !create {
			return nil
		}
		arr := NewComponentArray[T]()
		w.stores[id] = arr
		return arr
	}
	return s.(*ComponentArray[T])
}

type systemPtr[T any] interface {
	*T
	System
}

// RegisterSystem constructs and registers the single instance of system T.
// Registering the same type twice panics.
func RegisterSystem[T any, PT systemPtr[T]](w *World) PT {
	sys := PT(new(T))
	w.registerSystem(reflect.TypeFor[T](), sys)
	return sys
}

// SetSystemSignature sets the components system T requires.
func SetSystemSignature[T any](w *World, sig Signature) {
	w.setSystemSignature(reflect.TypeFor[T](), sig)
}

// SystemOf returns the registered instance of system T.
func SystemOf[T any](w *World) (*T, bool) {
	sys, ok := w.systems.Lookup(reflect.TypeFor[T]())
	if !ok {
		return nil, false
	}
	typed, ok := sys.(any).(*T)
	return typed, ok
}
