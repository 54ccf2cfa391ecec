package scene

import (
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/milk9111/gecore/common"
	"github.com/milk9111/gecore/ecs"
	"github.com/milk9111/gecore/ecs/component"
)

// Codec saves and restores one component type under a document key.
type Codec struct {
	Name   string
	Has    func(w *ecs.World, e ecs.Entity) bool
	Encode func(w *ecs.World, e ecs.Entity) (any, error)
	Decode func(w *ecs.World, e ecs.Entity, raw any) error
}

// NewCodec builds a codec for T stored as document type D.
func NewCodec[T, D any](name string, to func(T) (D, error), from func(D) (T, error)) Codec {
	return Codec{
		Name: name,
		Has: func(w *ecs.World, e ecs.Entity) bool {
			return ecs.Has[T](w, e)
		},
		Encode: func(w *ecs.World, e ecs.Entity) (any, error) {
			return to(ecs.Get[T](w, e))
		},
		Decode: func(w *ecs.World, e ecs.Entity, raw any) error {
			doc, err := DecodeComponent[D](raw)
			if err != nil {
				return err
			}
			value, err := from(doc)
			if err != nil {
				return err
			}
			return ecs.Set(w, e, value)
		},
	}
}

// DecodeComponent converts a generically decoded value, from either JSON or
// YAML, into D.
func DecodeComponent[D any](raw any) (D, error) {
	var zero D
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, eris.Wrap(err, "marshal component")
	}
	var out D
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, eris.Wrap(err, "unmarshal component")
	}
	return out, nil
}

func builtinCodecs(scripts *component.ScriptRegistry) []Codec {
	return []Codec{
		NewCodec("tag", encodeTag, decodeTag),
		NewCodec("transform", encodeTransform, decodeTransform),
		NewCodec("velocity", encodeVelocity, decodeVelocity),
		NewCodec("sprite", encodeSprite, decodeSprite),
		NewCodec("mesh", encodeMesh, decodeMesh),
		NewCodec("rigid_body", encodeRigidBody, decodeRigidBody),
		nativeScriptCodec(scripts),
	}
}

func encodeTag(t component.Tag) (string, error) {
	return t.Name, nil
}

func decodeTag(name string) (component.Tag, error) {
	return component.Tag{Name: name}, nil
}

func encodeTransform(t component.Transform) (TransformDoc, error) {
	return TransformDoc{
		Translation: vec3(t.Translation),
		Rotation:    &[4]float64{t.Rotation.W, t.Rotation.X, t.Rotation.Y, t.Rotation.Z},
		Scale:       &[3]float64{t.Scale.X, t.Scale.Y, t.Scale.Z},
	}, nil
}

func decodeTransform(d TransformDoc) (component.Transform, error) {
	t := component.NewTransform(common.Vec3{X: d.Translation[0], Y: d.Translation[1], Z: d.Translation[2]})
	if r := d.Rotation; r != nil {
		t.Rotation = common.Quat{W: r[0], X: r[1], Y: r[2], Z: r[3]}
	}
	if sc := d.Scale; sc != nil {
		t.Scale = common.Vec3{X: sc[0], Y: sc[1], Z: sc[2]}
	}
	return t, nil
}

func encodeVelocity(v component.Velocity) (VelocityDoc, error) {
	return VelocityDoc{Linear: vec3(v.Linear)}, nil
}

func decodeVelocity(d VelocityDoc) (component.Velocity, error) {
	return component.Velocity{Linear: common.Vec3{X: d.Linear[0], Y: d.Linear[1], Z: d.Linear[2]}}, nil
}

func encodeSprite(s component.Sprite) (SpriteDoc, error) {
	return SpriteDoc{
		Texture: s.Texture,
		Color:   &[4]float64{s.Color.X, s.Color.Y, s.Color.Z, s.Color.W},
		Tiling:  &[2]float64{s.Tiling.X, s.Tiling.Y},
	}, nil
}

func decodeSprite(d SpriteDoc) (component.Sprite, error) {
	s := component.NewSprite(d.Texture)
	if c := d.Color; c != nil {
		s.Color = common.Vec4{X: c[0], Y: c[1], Z: c[2], W: c[3]}
	}
	if tl := d.Tiling; tl != nil {
		s.Tiling = common.Vec2{X: tl[0], Y: tl[1]}
	}
	return s, nil
}

func encodeMesh(m component.Mesh) (MeshDoc, error) {
	return MeshDoc(m), nil
}

func decodeMesh(d MeshDoc) (component.Mesh, error) {
	return component.Mesh(d), nil
}

func encodeRigidBody(rb component.RigidBody) (RigidBodyDoc, error) {
	return RigidBodyDoc{
		Kind:       rb.Kind.String(),
		Mass:       rb.Mass,
		Width:      rb.Width,
		Height:     rb.Height,
		Radius:     rb.Radius,
		Friction:   rb.Friction,
		Elasticity: rb.Elasticity,
	}, nil
}

func decodeRigidBody(d RigidBodyDoc) (component.RigidBody, error) {
	return component.RigidBody{
		Kind:       component.ParseBodyKind(d.Kind),
		Mass:       d.Mass,
		Width:      d.Width,
		Height:     d.Height,
		Radius:     d.Radius,
		Friction:   d.Friction,
		Elasticity: d.Elasticity,
	}, nil
}

// nativeScriptCodec saves the script name and, for Serializable instances,
// their state. On load the script is rebound through scripts; unknown names
// keep the component without a factory so the script system skips it.
func nativeScriptCodec(scripts *component.ScriptRegistry) Codec {
	to := func(ns component.NativeScript) (NativeScriptDoc, error) {
		doc := NativeScriptDoc{Name: ns.Name, State: ns.State}
		if ser, ok := ns.Instance.(component.Serializable); ok {
			state, err := ser.OnSerialize()
			if err != nil {
				return doc, eris.Wrapf(err, "serialize script %q", ns.Name)
			}
			doc.State = state
		}
		return doc, nil
	}
	from := func(doc NativeScriptDoc) (component.NativeScript, error) {
		ns, ok := scripts.Bind(doc.Name)
		if !ok {
			ns = component.NativeScript{Name: doc.Name}
		}
		ns.State = doc.State
		return ns, nil
	}
	return NewCodec("native_script", to, from)
}

func vec3(v common.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}
