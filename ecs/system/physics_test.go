package system

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/gecore/common"
	"github.com/milk9111/gecore/ecs"
	"github.com/milk9111/gecore/ecs/component"
)

func TestPhysicsDynamicBodyFalls(t *testing.T) {
	w := ecs.NewWorld()
	ps := NewPhysicsSystem(w, common.Vec2{Y: -10})
	e := newEntity(t, w,
		with(t, w, at(0, 10, 0)),
		with(t, w, component.RigidBody{Kind: component.BodyDynamic, Mass: 1, Width: 1, Height: 1}),
	)

	for i := 0; i < 30; i++ {
		w.Update(1.0 / 60)
	}

	assert.Less(t, ecs.Get[component.Transform](w, e).Translation.Y, 10.0)
	rb := ecs.Get[component.RigidBody](w, e)
	require.NotNil(t, rb.Body)
	require.NotNil(t, rb.Shape)
	assert.Equal(t, 1, ps.BodyCount())
}

func TestPhysicsStaticAndKinematic(t *testing.T) {
	w := ecs.NewWorld()
	ps := NewPhysicsSystem(w, common.Vec2{Y: -10})
	NewMovementSystem(w)
	ground := newEntity(t, w,
		with(t, w, at(0, 0, 0)),
		with(t, w, component.RigidBody{Kind: component.BodyStatic, Width: 100, Height: 1}),
	)
	platform := newEntity(t, w,
		with(t, w, at(0, 5, 0)),
		with(t, w, component.RigidBody{Kind: component.BodyKinematic, Width: 2, Height: 1}),
		with(t, w, component.Velocity{Linear: common.Vec3{X: 1}}),
	)

	w.Update(0.5)

	assert.Equal(t, common.Vec3{}, ecs.Get[component.Transform](w, ground).Translation)
	pos := ecs.Get[component.Transform](w, platform).Translation
	// moved once by the physics step, not again by movement
	assert.InDelta(t, 0.5, pos.X, 1e-6)
	assert.InDelta(t, 5.0, pos.Y, 1e-6)
	assert.Equal(t, 2, ps.BodyCount())
}

func TestPhysicsRemovesBodies(t *testing.T) {
	w := ecs.NewWorld()
	ps := NewPhysicsSystem(w, common.Vec2{Y: -10})
	a := newEntity(t, w, with(t, w, at(0, 0, 0)), with(t, w, component.RigidBody{Radius: 0.5}))
	b := newEntity(t, w, with(t, w, at(3, 0, 0)), with(t, w, component.RigidBody{Width: 1, Height: 1}))

	w.Update(0.1)
	require.Equal(t, 2, ps.BodyCount())

	require.True(t, ecs.Remove[component.RigidBody](w, a))
	require.True(t, w.DestroyEntity(b))
	w.Update(0.1)
	assert.Equal(t, 0, ps.BodyCount())

	// the transform stays where physics left it
	assert.True(t, ecs.Has[component.Transform](w, a))

	ps.Shutdown()
	assert.Equal(t, 0, ps.BodyCount())
}

func TestPhysicsRebuildsChangedBodies(t *testing.T) {
	w := ecs.NewWorld()
	ps := NewPhysicsSystem(w, common.Vec2{Y: -10})
	e := newEntity(t, w, with(t, w, at(0, 10, 0)), with(t, w, component.RigidBody{Width: 1, Height: 1}))

	w.Update(0.1)
	first := ecs.Get[component.RigidBody](w, e).Body
	require.NotNil(t, first)

	// same settings keep the body
	w.Update(0.1)
	assert.Same(t, first, ecs.Get[component.RigidBody](w, e).Body)

	// a settings change rebuilds it
	ecs.Ref[component.RigidBody](w, e).Mass = 5
	w.Update(0.1)
	second := ecs.Get[component.RigidBody](w, e).Body
	assert.NotSame(t, first, second)
	assert.Equal(t, 1, ps.BodyCount())

	// replacing the component within a frame rebuilds it too
	y := ecs.Get[component.Transform](w, e).Translation.Y
	require.True(t, ecs.Remove[component.RigidBody](w, e))
	require.NoError(t, ecs.Add(w, e, component.RigidBody{Kind: component.BodyKinematic, Width: 1, Height: 1}))
	w.Update(0.1)
	third := ecs.Get[component.RigidBody](w, e).Body
	assert.NotSame(t, second, third)
	assert.Equal(t, cp.BODY_KINEMATIC, third.GetType())
	assert.InDelta(t, y, ecs.Get[component.Transform](w, e).Translation.Y, 1e-9, "kinematic body does not fall")
	assert.Equal(t, 1, ps.BodyCount())
}
