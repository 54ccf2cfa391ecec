package system

import (
	"slices"

	"github.com/milk9111/gecore/ecs"
	"github.com/milk9111/gecore/ecs/component"
)

// ScriptSystem drives NativeScript instances. Instances are created lazily on
// the first update that sees them and get OnDestroy once their entity leaves
// the system, whether by removal of the component or destruction.
type ScriptSystem struct {
	ecs.Base
	live map[ecs.Entity]component.Script
}

func NewScriptSystem(w *ecs.World) *ScriptSystem {
	s := &ScriptSystem{live: make(map[ecs.Entity]component.Script)}
	w.AddSystem(s)
	ecs.SetSystemSignature[ScriptSystem](w, ecs.SignatureOf[component.NativeScript](w))
	return s
}

func (s *ScriptSystem) Update(w *ecs.World, dt float64) {
	if s == nil || w == nil {
		return
	}
	s.reap(w)

	for e := range s.Entities().All() {
		if !w.IsAlive(e) {
			// destroyed by a script earlier in this pass
			continue
		}
		if !ecs.Has[component.NativeScript](w, e) {
			w.Logger().Error().Stringer("entity", e).Msg("entity in script system has no NativeScript, skipping")
			continue
		}

		nsc := ecs.Ref[component.NativeScript](w, e)
		inst := nsc.Instance
		if inst == nil {
			if nsc.Instantiate == nil {
				// loaded from a scene with no registered factory
				continue
			}
			inst = nsc.Instantiate()
			inst.Attach(w, e)
			if nsc.State != nil {
				if ser, ok := inst.(component.Serializable); ok {
					if err := ser.OnDeserialize(nsc.State); err != nil {
						w.Logger().Warn().Err(err).Str("script", nsc.Name).Stringer("entity", e).Msg("restore script state")
					}
				}
				nsc.State = nil
			}
			nsc.Instance = inst
			s.live[e] = inst
			inst.OnCreate()
		} else if s.live[e] != inst {
			inst.Attach(w, e)
			s.live[e] = inst
		}

		if w.IsAlive(e) {
			inst.OnUpdate(dt)
		}
	}

	s.reap(w)
}

// Shutdown calls OnDestroy on every live instance and detaches them from
// their components. It is used before the world is cleared.
func (s *ScriptSystem) Shutdown(w *ecs.World) {
	if s == nil {
		return
	}
	for _, e := range s.liveEntities() {
		inst := s.live[e]
		delete(s.live, e)
		inst.OnDestroy()
		if nsc, ok := s.component(w, e); ok && nsc.Instance == inst {
			nsc.Instance = nil
		}
	}
}

// Instance returns the running script of e, if any.
func (s *ScriptSystem) Instance(e ecs.Entity) (component.Script, bool) {
	inst, ok := s.live[e]
	return inst, ok
}

func (s *ScriptSystem) reap(w *ecs.World) {
	for _, e := range s.liveEntities() {
		inst := s.live[e]
		if s.Entities().Contains(e) {
			if nsc, ok := s.component(w, e); ok && nsc.Instance == inst {
				continue
			}
		}
		delete(s.live, e)
		inst.OnDestroy()
	}
}

func (s *ScriptSystem) component(w *ecs.World, e ecs.Entity) (*component.NativeScript, bool) {
	if w == nil || !ecs.Has[component.NativeScript](w, e) {
		return nil, false
	}
	return ecs.Ref[component.NativeScript](w, e), true
}

// liveEntities returns tracked entities in a stable order.
func (s *ScriptSystem) liveEntities() []ecs.Entity {
	out := make([]ecs.Entity, 0, len(s.live))
	for e := range s.live {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b ecs.Entity) int {
		return int(a.Index()) - int(b.Index())
	})
	return out
}
