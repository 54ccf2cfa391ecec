package component

import "github.com/milk9111/gecore/common"

type Transform struct {
	Translation common.Vec3
	Rotation    common.Quat
	Scale       common.Vec3
}

// NewTransform returns a transform at pos with no rotation and unit scale.
func NewTransform(pos common.Vec3) Transform {
	return Transform{
		Translation: pos,
		Rotation:    common.IdentityQuat(),
		Scale:       common.Vec3{X: 1, Y: 1, Z: 1},
	}
}

// Matrix returns the model matrix translate * rotate * scale.
func (t Transform) Matrix() common.Mat4 {
	return common.Compose(t.Translation, t.Rotation, t.Scale)
}
