package system

import (
	"github.com/milk9111/gecore/ecs"
	"github.com/milk9111/gecore/ecs/component"
)

// MovementSystem integrates Velocity into Transform. Entities with a
// RigidBody are left to the physics system.
type MovementSystem struct {
	ecs.Base
}

func NewMovementSystem(w *ecs.World) *MovementSystem {
	s := ecs.RegisterSystem[MovementSystem](w)
	ecs.SetSystemSignature[MovementSystem](w, ecs.SignatureOf2[component.Transform, component.Velocity](w))
	return s
}

func (s *MovementSystem) Update(w *ecs.World, dt float64) {
	if s == nil || w == nil {
		return
	}
	for e := range s.Entities().All() {
		if ecs.Has[component.RigidBody](w, e) {
			continue
		}
		v := ecs.Get[component.Velocity](w, e)
		t := ecs.Ref[component.Transform](w, e)
		t.Translation = t.Translation.Add(v.Linear.Scale(dt))
	}
}
