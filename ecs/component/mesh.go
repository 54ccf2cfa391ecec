package component

// Mesh is drawn in the 3D pass for entities without a Sprite.
type Mesh struct {
	Mesh   string
	Shader string
}
