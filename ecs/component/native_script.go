package component

import (
	"sort"

	"github.com/milk9111/gecore/ecs"
)

// Script is native per-entity behavior driven by the script system. Embed
// ScriptableEntity to get the binding and no-op hooks.
type Script interface {
	Attach(w *ecs.World, e ecs.Entity)
	OnCreate()
	OnUpdate(dt float64)
	OnDestroy()
}

// Serializable scripts keep state across save and load.
type Serializable interface {
	OnSerialize() (map[string]any, error)
	OnDeserialize(state map[string]any) error
}

// ScriptableEntity is the base of every Script.
type ScriptableEntity struct {
	world  *ecs.World
	entity ecs.Entity
}

func (s *ScriptableEntity) Attach(w *ecs.World, e ecs.Entity) {
	s.world = w
	s.entity = e
}

func (s *ScriptableEntity) World() *ecs.World {
	return s.world
}

func (s *ScriptableEntity) Entity() ecs.Entity {
	return s.entity
}

func (s *ScriptableEntity) OnCreate()           {}
func (s *ScriptableEntity) OnUpdate(dt float64) {}
func (s *ScriptableEntity) OnDestroy()          {}

// ScriptComponent borrows a component of the script's own entity. See ecs.Ref
// for how long the pointer stays valid.
func ScriptComponent[T any](s *ScriptableEntity) *T {
	return ecs.Ref[T](s.world, s.entity)
}

// NativeScript attaches a Script to an entity. Instance is created lazily by
// the script system from Instantiate. State holds saved script state that is
// handed to the instance when it is created.
type NativeScript struct {
	Name        string
	Instance    Script
	Instantiate func() Script
	State       map[string]any
}

type scriptPtr[T any] interface {
	*T
	Script
}

// Bind returns a NativeScript that instantiates a fresh T.
func Bind[T any, PT scriptPtr[T]](name string) NativeScript {
	return NativeScript{
		Name:        name,
		Instantiate: func() Script { return PT(new(T)) },
	}
}

// ScriptRegistry maps script names to factories so saved scenes can rebind
// their scripts.
type ScriptRegistry struct {
	factories map[string]func() Script
}

func NewScriptRegistry() *ScriptRegistry {
	return &ScriptRegistry{factories: make(map[string]func() Script)}
}

// Register adds or replaces a named factory.
func (r *ScriptRegistry) Register(name string, factory func() Script) {
	r.factories[name] = factory
}

// RegisterScript registers T under name.
func RegisterScript[T any, PT scriptPtr[T]](r *ScriptRegistry, name string) {
	r.Register(name, func() Script { return PT(new(T)) })
}

// Bind returns an unstarted NativeScript for name.
func (r *ScriptRegistry) Bind(name string) (NativeScript, bool) {
	if r == nil {
		return NativeScript{}, false
	}
	f, ok := r.factories[name]
	if !ok {
		return NativeScript{}, false
	}
	return NativeScript{Name: name, Instantiate: f}, true
}

func (r *ScriptRegistry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
