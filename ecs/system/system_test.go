package system

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/milk9111/gecore/common"
	"github.com/milk9111/gecore/ecs"
	"github.com/milk9111/gecore/ecs/component"
)

func newEntity(t *testing.T, w *ecs.World, components ...func(ecs.Entity)) ecs.Entity {
	t.Helper()
	e, err := w.CreateEntity()
	require.NoError(t, err)
	for _, add := range components {
		add(e)
	}
	return e
}

func with[T any](t *testing.T, w *ecs.World, value T) func(ecs.Entity) {
	return func(e ecs.Entity) {
		require.NoError(t, ecs.Add(w, e, value))
	}
}

func at(x, y, z float64) component.Transform {
	return component.NewTransform(common.Vec3{X: x, Y: y, Z: z})
}
