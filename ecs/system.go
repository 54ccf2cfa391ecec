package ecs

// System is implemented by any struct embedding Base. The world keeps each
// system's entity set in sync with its required signature; user code only
// reads it.
type System interface {
	base() *Base
}

// Base holds the entities currently matching a system's signature.
type Base struct {
	entities EntitySet
}

func (b *Base) base() *Base {
	return b
}

// Entities returns the matching set.
func (b *Base) Entities() *EntitySet {
	return &b.entities
}

// Updater is a system that runs once per frame from World.Update.
type Updater interface {
	Update(w *World, dt float64)
}
