package system

import (
	"github.com/jakecoffman/cp"

	"github.com/milk9111/gecore/common"
	"github.com/milk9111/gecore/ecs"
	"github.com/milk9111/gecore/ecs/component"
)

const defaultBodySize = 1.0

// PhysicsSystem mirrors entities with a Transform and a RigidBody into a
// Chipmunk space. Bodies are created the first frame an entity joins the
// system and removed the first frame after it leaves. A body is rebuilt when
// its RigidBody settings change or the component is replaced.
type PhysicsSystem struct {
	ecs.Base
	space  *cp.Space
	bodies map[ecs.Entity]*bodyInfo
}

type bodyInfo struct {
	body     *cp.Body
	shape    *cp.Shape
	static   bool
	settings bodySettings
}

// bodySettings is the part of a RigidBody a body is built from.
type bodySettings struct {
	kind                        component.BodyKind
	mass, width, height, radius float64
	friction, elasticity        float64
}

func settingsOf(rb component.RigidBody) bodySettings {
	return bodySettings{
		kind:       rb.Kind,
		mass:       rb.Mass,
		width:      rb.Width,
		height:     rb.Height,
		radius:     rb.Radius,
		friction:   rb.Friction,
		elasticity: rb.Elasticity,
	}
}

func NewPhysicsSystem(w *ecs.World, gravity common.Vec2) *PhysicsSystem {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{X: gravity.X, Y: gravity.Y})

	ps := &PhysicsSystem{space: space, bodies: make(map[ecs.Entity]*bodyInfo)}
	w.AddSystem(ps)
	ecs.SetSystemSignature[PhysicsSystem](w, ecs.SignatureOf2[component.Transform, component.RigidBody](w))
	return ps
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

// BodyCount returns how many bodies and static shapes are mirrored.
func (ps *PhysicsSystem) BodyCount() int {
	return len(ps.bodies)
}

func (ps *PhysicsSystem) Update(w *ecs.World, dt float64) {
	if ps == nil || w == nil || dt <= 0 {
		return
	}

	ps.cleanupEntities()
	ps.syncEntities(w)
	ps.space.Step(dt)
	ps.syncTransforms(w)
}

// Shutdown removes every body from the space.
func (ps *PhysicsSystem) Shutdown() {
	for e, info := range ps.bodies {
		ps.removeBody(info)
		delete(ps.bodies, e)
	}
}

func (ps *PhysicsSystem) syncEntities(w *ecs.World) {
	for e := range ps.Entities().All() {
		rb := ecs.Ref[component.RigidBody](w, e)
		t := ecs.Get[component.Transform](w, e)

		info := ps.bodies[e]
		if info != nil && (rb.Body != info.body || info.settings != settingsOf(*rb)) {
			velocity := info.body.Velocity()
			ps.removeBody(info)
			info = ps.createBody(t, *rb)
			if rb.Kind == component.BodyDynamic {
				info.body.SetVelocity(velocity.X, velocity.Y)
			}
			ps.bodies[e] = info
			w.Logger().Debug().Stringer("entity", e).Stringer("kind", rb.Kind).Msg("physics body rebuilt")
		}
		if info == nil {
			info = ps.createBody(t, *rb)
			ps.bodies[e] = info
			w.Logger().Debug().Stringer("entity", e).Stringer("kind", rb.Kind).Msg("physics body created")
		}
		rb.Body = info.body
		rb.Shape = info.shape

		if rb.Kind == component.BodyKinematic {
			// kinematic bodies follow their transform and velocity
			info.body.SetPosition(cp.Vector{X: t.Translation.X, Y: t.Translation.Y})
			info.body.SetAngle(t.Rotation.Angle2D())
			if v, ok := ecs.TryGet[component.Velocity](w, e); ok {
				info.body.SetVelocity(v.Linear.X, v.Linear.Y)
			}
		}
	}
}

func (ps *PhysicsSystem) createBody(t component.Transform, rb component.RigidBody) *bodyInfo {
	width, height, radius := rb.Width, rb.Height, rb.Radius
	if radius <= 0 && (width <= 0 || height <= 0) {
		width, height = defaultBodySize, defaultBodySize
	}
	pos := cp.Vector{X: t.Translation.X, Y: t.Translation.Y}

	if rb.Kind == component.BodyStatic {
		var shape *cp.Shape
		if radius > 0 {
			shape = cp.NewCircle(ps.space.StaticBody, radius, pos)
		} else {
			bb := cp.BB{L: pos.X - width/2, B: pos.Y - height/2, R: pos.X + width/2, T: pos.Y + height/2}
			shape = cp.NewBox2(ps.space.StaticBody, bb, 0)
		}
		shape.SetFriction(rb.Friction)
		shape.SetElasticity(rb.Elasticity)
		ps.space.AddShape(shape)
		return &bodyInfo{body: ps.space.StaticBody, shape: shape, static: true, settings: settingsOf(rb)}
	}

	var body *cp.Body
	if rb.Kind == component.BodyKinematic {
		body = cp.NewKinematicBody()
	} else {
		mass := rb.Mass
		if mass <= 0 {
			mass = 1
		}
		var moment float64
		if radius > 0 {
			moment = cp.MomentForCircle(mass, 0, radius, cp.Vector{})
		} else {
			moment = cp.MomentForBox(mass, width, height)
		}
		body = cp.NewBody(mass, moment)
	}
	body.SetPosition(pos)
	body.SetAngle(t.Rotation.Angle2D())

	var shape *cp.Shape
	if radius > 0 {
		shape = cp.NewCircle(body, radius, cp.Vector{})
	} else {
		shape = cp.NewBox(body, width, height, 0)
	}
	shape.SetFriction(rb.Friction)
	shape.SetElasticity(rb.Elasticity)

	ps.space.AddBody(body)
	ps.space.AddShape(shape)
	return &bodyInfo{body: body, shape: shape, settings: settingsOf(rb)}
}

func (ps *PhysicsSystem) syncTransforms(w *ecs.World) {
	for e := range ps.Entities().All() {
		info := ps.bodies[e]
		if info == nil || info.static {
			continue
		}
		t := ecs.Ref[component.Transform](w, e)
		pos := info.body.Position()
		t.Translation.X = pos.X
		t.Translation.Y = pos.Y
		t.Rotation = common.QuatFromAxisAngle(common.Vec3{Z: 1}, info.body.Angle())
	}
}

func (ps *PhysicsSystem) cleanupEntities() {
	for e, info := range ps.bodies {
		if ps.Entities().Contains(e) {
			continue
		}
		ps.removeBody(info)
		delete(ps.bodies, e)
	}
}

func (ps *PhysicsSystem) removeBody(info *bodyInfo) {
	if info.shape != nil {
		ps.space.RemoveShape(info.shape)
	}
	if info.body != nil && !info.static {
		ps.space.RemoveBody(info.body)
	}
}
