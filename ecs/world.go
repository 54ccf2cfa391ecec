package ecs

import (
	"iter"
	"reflect"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// World owns entities, their component storage and signatures, and the
// registered systems. All structural mutation goes through it so storage,
// signatures and system membership never drift apart.
//
// A World is not safe for concurrent use.
type World struct {
	capacity   uint32
	entities   *EntityManager
	registry   *Registry
	stores     [MaxComponents]componentStore
	signatures []Signature
	live       []Entity
	liveIndex  map[uint32]int
	systems    *SystemManager
	events     EventQueue
	logger     zerolog.Logger
}

// NewWorld creates an empty ECS world.
func NewWorld(opts ...Option) *World {
	w := &World{
		capacity: DefaultCapacity,
		registry: NewRegistry(),
		systems:  NewSystemManager(),
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.entities = NewEntityManager(w.capacity)
	w.signatures = make([]Signature, w.capacity)
	w.liveIndex = make(map[uint32]int)
	return w
}

// CreateEntity allocates a new entity with an empty signature.
func (w *World) CreateEntity() (Entity, error) {
	e := w.entities.CreateEntity()
	if !e.Valid() {
		w.logger.Warn().Uint32("capacity", w.capacity).Msg("entity capacity exhausted")
		return InvalidEntity, eris.Wrapf(ErrCapacityExhausted, "capacity %d", w.capacity)
	}
	w.liveIndex[e.Index()] = len(w.live)
	w.live = append(w.live, e)
	w.signatures[e.Index()] = Signature{}
	w.events.Push(Event{Kind: EntityCreated, Entity: e})
	return e, nil
}

// DestroyEntity removes e and all of its components. It reports false, and
// changes nothing, when e is already destroyed or was never valid.
func (w *World) DestroyEntity(e Entity) bool {
	if !w.IsAlive(e) {
		return false
	}
	w.untrack(e)
	for _, s := range w.stores {
		if s != nil {
			s.EntityDestroyed(e)
		}
	}
	w.signatures[e.Index()] = Signature{}
	w.systems.EntityDestroyed(e)
	w.entities.DestroyEntity(e)
	w.events.Push(Event{Kind: EntityDestroyed, Entity: e})
	return true
}

// Clear destroys every live entity and returns how many there were. Systems
// and the registry are kept.
func (w *World) Clear() int {
	alive := w.Entities()
	for _, e := range alive {
		w.DestroyEntity(e)
	}
	return len(alive)
}

// IsAlive reports whether an entity handle is valid.
func (w *World) IsAlive(e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.IsAlive(e)
}

// Entities returns a copy of the live entities in creation order, modulo
// destruction which moves the newest entity into the freed position.
func (w *World) Entities() []Entity {
	out := make([]Entity, len(w.live))
	copy(out, w.live)
	return out
}

// All iterates over a snapshot of the live entities.
func (w *World) All() iter.Seq[Entity] {
	alive := w.Entities()
	return func(yield func(Entity) bool) {
		for _, e := range alive {
			if !yield(e) {
				return
			}
		}
	}
}

func (w *World) EntityCount() int {
	return len(w.live)
}

func (w *World) Capacity() uint32 {
	return w.capacity
}

// Signature returns the component signature of a live entity.
func (w *World) Signature(e Entity) Signature {
	if !w.IsAlive(e) {
		return Signature{}
	}
	return w.signatures[e.Index()]
}

// HasComponentID is the untyped form of Has.
func (w *World) HasComponentID(e Entity, id ComponentID) bool {
	if !w.IsAlive(e) || id >= MaxComponents {
		return false
	}
	s := w.stores[id]
	return s != nil && s.HasData(e)
}

// RemoveComponentID is the untyped form of Remove.
func (w *World) RemoveComponentID(e Entity, id ComponentID) bool {
	if !w.IsAlive(e) || id >= MaxComponents {
		return false
	}
	s := w.stores[id]
	if s == nil || !s.RemoveData(e) {
		return false
	}
	w.componentRemoved(e, id)
	return true
}

func (w *World) Registry() *Registry {
	return w.registry
}

func (w *World) Systems() *SystemManager {
	return w.systems
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

func (w *World) Logger() *zerolog.Logger {
	return &w.logger
}

// AddSystem registers an already constructed system under its concrete type.
// Use it for systems that need dependencies; RegisterSystem builds zero values.
func (w *World) AddSystem(sys System) {
	if sys == nil {
		w.fail(ErrNilSystem)
	}
	if v := reflect.ValueOf(sys); v.Kind() == reflect.Pointer && v.IsNil() {
		w.fail(eris.Wrapf(ErrNilSystem, "%s", v.Type()))
	}
	w.registerSystem(systemType(sys), sys)
}

// Update runs every registered Updater once, in registration order. Events
// left undrained since the previous Update are dropped afterwards.
func (w *World) Update(dt float64) {
	if w == nil {
		return
	}
	for _, sys := range w.systems.Systems() {
		if u, ok := sys.(Updater); ok {
			u.Update(w, dt)
		}
	}
	w.events.expire()
}

func (w *World) registerSystem(typ reflect.Type, sys System) {
	if err := w.systems.Register(typ, sys); err != nil {
		w.fail(err)
	}
	w.logger.Debug().Str("system", typ.String()).Msg("system registered")
}

// setSystemSignature also recomputes membership for entities that already
// exist, so the set is correct no matter when the signature is assigned.
func (w *World) setSystemSignature(typ reflect.Type, sig Signature) {
	if err := w.systems.SetSignature(typ, sig); err != nil {
		w.fail(err)
	}
	entry := w.systems.byType[typ]
	for _, e := range w.live {
		w.systems.refresh(entry, e, w.signatures[e.Index()])
	}
	w.logger.Debug().Str("system", typ.String()).Stringer("signature", sig).
		Int("entities", entry.sys.base().entities.Len()).Msg("system signature set")
}

func (w *World) componentAdded(e Entity, id ComponentID) {
	sig := &w.signatures[e.Index()]
	sig.Set(id)
	w.systems.EntitySignatureChanged(e, *sig)
	w.events.Push(Event{Kind: ComponentAdded, Entity: e, Component: id})
}

func (w *World) componentRemoved(e Entity, id ComponentID) {
	sig := &w.signatures[e.Index()]
	sig.Clear(id)
	w.systems.EntitySignatureChanged(e, *sig)
	w.events.Push(Event{Kind: ComponentRemoved, Entity: e, Component: id})
}

func (w *World) untrack(e Entity) {
	idx, ok := w.liveIndex[e.Index()]
	if !ok {
		return
	}
	last := len(w.live) - 1
	moved := w.live[last]
	w.live[idx] = moved
	w.liveIndex[moved.Index()] = idx
	w.live = w.live[:last]
	delete(w.liveIndex, e.Index())
}

// fail logs a contract violation and panics with it.
func (w *World) fail(err error) {
	w.logger.Error().Err(err).Msg("ecs invariant violated")
	panic(err)
}

func systemType(sys System) reflect.Type {
	t := reflect.TypeOf(sys)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
