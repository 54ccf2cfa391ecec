package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuatRotate(t *testing.T) {
	q := QuatFromAxisAngle(Vec3{Z: 1}, math.Pi/2)
	got := q.Rotate(Vec3{X: 1})
	assert.InDelta(t, 0, got.X, 1e-9)
	assert.InDelta(t, 1, got.Y, 1e-9)
	assert.InDelta(t, math.Pi/2, q.Angle2D(), 1e-9)

	assert.Equal(t, Vec3{X: 2, Y: 3}, IdentityQuat().Rotate(Vec3{X: 2, Y: 3}))
}

func TestCompose(t *testing.T) {
	m := Compose(Vec3{X: 10}, QuatFromAxisAngle(Vec3{Z: 1}, math.Pi/2), Vec3{X: 2, Y: 2, Z: 2})
	got := m.Apply(Vec3{X: 1})
	// scale, then rotate onto +Y, then translate
	assert.InDelta(t, 10, got.X, 1e-9)
	assert.InDelta(t, 2, got.Y, 1e-9)

	assert.Equal(t, IdentityMat4(), Compose(Vec3{}, IdentityQuat(), Vec3{1, 1, 1}))
}

func TestLerp(t *testing.T) {
	assert.Equal(t, 5.0, Lerp(0, 10, 0.5))
}
