package component

import "github.com/milk9111/gecore/common"

// Sprite is a textured quad drawn in the 2D pass. Texture names an asset the
// renderer resolves; an empty name draws a flat colored quad.
type Sprite struct {
	Texture string
	Color   common.Vec4
	Tiling  common.Vec2
}

func NewSprite(texture string) Sprite {
	return Sprite{
		Texture: texture,
		Color:   common.Vec4{X: 1, Y: 1, Z: 1, W: 1},
		Tiling:  common.Vec2{X: 1, Y: 1},
	}
}
