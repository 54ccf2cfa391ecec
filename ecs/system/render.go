package system

import (
	"github.com/milk9111/gecore/common"
	"github.com/milk9111/gecore/ecs"
	"github.com/milk9111/gecore/ecs/component"
)

// Camera is an orthographic 2D camera.
type Camera struct {
	Position common.Vec2
	Zoom     float64
	Rotation float64
}

// Quad is one sprite submitted in the 2D pass.
type Quad struct {
	Position common.Vec3
	Size     common.Vec2
	Texture  string
	Color    common.Vec4
	Tiling   common.Vec2
	EntityID uint32
}

// Renderer is the drawing backend the render system submits to.
type Renderer interface {
	DrawMesh(mesh, shader string, model common.Mat4)
	BeginScene(cam Camera)
	DrawQuad(q Quad)
	EndScene()
}

// RenderSystem draws every entity with a Transform: meshes first, then
// sprites between BeginScene and EndScene. Sprites are only drawn once a
// camera is set.
type RenderSystem struct {
	ecs.Base
	renderer Renderer
	camera   *Camera
}

func NewRenderSystem(w *ecs.World, r Renderer) *RenderSystem {
	s := &RenderSystem{renderer: r}
	w.AddSystem(s)
	ecs.SetSystemSignature[RenderSystem](w, ecs.SignatureOf[component.Transform](w))
	return s
}

func (s *RenderSystem) SetCamera(cam *Camera) {
	s.camera = cam
}

func (s *RenderSystem) Camera() *Camera {
	return s.camera
}

func (s *RenderSystem) SetRenderer(r Renderer) {
	s.renderer = r
}

func (s *RenderSystem) Render(w *ecs.World) {
	if s == nil || w == nil || s.renderer == nil {
		return
	}

	for e := range s.Entities().All() {
		if ecs.Has[component.Sprite](w, e) {
			continue
		}
		mesh, ok := ecs.TryGet[component.Mesh](w, e)
		if !ok || mesh.Mesh == "" || mesh.Shader == "" {
			continue
		}
		t := ecs.Get[component.Transform](w, e)
		s.renderer.DrawMesh(mesh.Mesh, mesh.Shader, t.Matrix())
	}

	if s.camera == nil {
		return
	}
	s.renderer.BeginScene(*s.camera)
	for e := range s.Entities().All() {
		sprite, ok := ecs.TryGet[component.Sprite](w, e)
		if !ok {
			continue
		}
		t := ecs.Get[component.Transform](w, e)
		s.renderer.DrawQuad(Quad{
			Position: t.Translation,
			Size:     common.Vec2{X: t.Scale.X, Y: t.Scale.Y},
			Texture:  sprite.Texture,
			Color:    sprite.Color,
			Tiling:   sprite.Tiling,
			EntityID: e.Index(),
		})
	}
	s.renderer.EndScene()
}

type DrawKind uint8

const (
	DrawMesh DrawKind = iota
	DrawBegin
	DrawQuad
	DrawEnd
)

type DrawCommand struct {
	Kind   DrawKind
	Mesh   string
	Shader string
	Model  common.Mat4
	Camera Camera
	Quad   Quad
}

// DrawList is a Renderer that records commands. The headless runner and
// tests use it in place of a GPU backend.
type DrawList struct {
	Commands []DrawCommand
}

func (d *DrawList) DrawMesh(mesh, shader string, model common.Mat4) {
	d.Commands = append(d.Commands, DrawCommand{Kind: DrawMesh, Mesh: mesh, Shader: shader, Model: model})
}

func (d *DrawList) BeginScene(cam Camera) {
	d.Commands = append(d.Commands, DrawCommand{Kind: DrawBegin, Camera: cam})
}

func (d *DrawList) DrawQuad(q Quad) {
	d.Commands = append(d.Commands, DrawCommand{Kind: DrawQuad, Quad: q})
}

func (d *DrawList) EndScene() {
	d.Commands = append(d.Commands, DrawCommand{Kind: DrawEnd})
}

// Reset drops recorded commands and keeps the buffer.
func (d *DrawList) Reset() {
	d.Commands = d.Commands[:0]
}

// Len returns how many commands were recorded.
func (d *DrawList) Len() int {
	return len(d.Commands)
}

// Count returns how many commands of kind were recorded.
func (d *DrawList) Count(kind DrawKind) int {
	n := 0
	for _, c := range d.Commands {
		if c.Kind == kind {
			n++
		}
	}
	return n
}
