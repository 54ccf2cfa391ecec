package system

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/milk9111/gecore/common"
	"github.com/milk9111/gecore/ecs"
	"github.com/milk9111/gecore/ecs/component"
)

func TestRenderSystemPasses(t *testing.T) {
	w := ecs.NewWorld()
	list := &DrawList{}
	s := NewRenderSystem(w, list)

	newEntity(t, w, with(t, w, at(1, 2, 3)), with(t, w, component.Mesh{Mesh: "cube", Shader: "lit"}))
	// sprite wins over mesh
	sprite := newEntity(t, w,
		with(t, w, at(4, 5, 0)),
		with(t, w, component.Mesh{Mesh: "cube", Shader: "lit"}),
		with(t, w, component.NewSprite("hero.png")),
	)
	// incomplete mesh is skipped
	newEntity(t, w, with(t, w, at(0, 0, 0)), with(t, w, component.Mesh{Mesh: "cube"}))
	// no transform, not in the system
	newEntity(t, w, with(t, w, component.NewSprite("")))

	tests := []struct {
		name   string
		camera *Camera
		want   []DrawKind
	}{
		{"no_camera_skips_sprites", nil, []DrawKind{DrawMesh}},
		{"camera_draws_sprites", &Camera{Zoom: 1}, []DrawKind{DrawMesh, DrawBegin, DrawQuad, DrawEnd}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			list.Reset()
			s.SetCamera(tc.camera)
			s.Render(w)

			var kinds []DrawKind
			for _, c := range list.Commands {
				kinds = append(kinds, c.Kind)
			}
			assert.Equal(t, tc.want, kinds)
			assert.Equal(t, len(tc.want), list.Len())
		})
	}

	mesh := list.Commands[0]
	assert.Equal(t, "cube", mesh.Mesh)
	assert.Equal(t, common.Vec3{X: 1, Y: 2, Z: 3}, mesh.Model.Apply(common.Vec3{}))

	quad := list.Commands[2].Quad
	assert.Equal(t, common.Vec3{X: 4, Y: 5}, quad.Position)
	assert.Equal(t, common.Vec2{X: 1, Y: 1}, quad.Size)
	assert.Equal(t, "hero.png", quad.Texture)
	assert.Equal(t, sprite.Index(), quad.EntityID)
	assert.Equal(t, 1, list.Count(DrawQuad))
}
