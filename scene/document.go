package scene

// Document is the on-disk form of a world.
type Document struct {
	Scene    string   `json:"scene" yaml:"scene"`
	Entities []Entity `json:"entities" yaml:"entities"`
}

// Entity is one saved entity. Components are keyed by codec name.
type Entity struct {
	ID         string         `json:"id,omitempty" yaml:"id,omitempty"`
	Components map[string]any `json:"components" yaml:"components"`
}

type TransformDoc struct {
	Translation [3]float64 `json:"translation" yaml:"translation"`
	// Rotation is w, x, y, z. Absent rotation and scale load as identity.
	Rotation *[4]float64 `json:"rotation,omitempty" yaml:"rotation,omitempty"`
	Scale    *[3]float64 `json:"scale,omitempty" yaml:"scale,omitempty"`
}

type VelocityDoc struct {
	Linear [3]float64 `json:"linear" yaml:"linear"`
}

type SpriteDoc struct {
	Texture string `json:"texture,omitempty" yaml:"texture,omitempty"`
	// Absent color loads as white and absent tiling as 1,1.
	Color  *[4]float64 `json:"color,omitempty" yaml:"color,omitempty"`
	Tiling *[2]float64 `json:"tiling,omitempty" yaml:"tiling,omitempty"`
}

type MeshDoc struct {
	Mesh   string `json:"mesh" yaml:"mesh"`
	Shader string `json:"shader" yaml:"shader"`
}

type RigidBodyDoc struct {
	Kind       string  `json:"kind" yaml:"kind"`
	Mass       float64 `json:"mass,omitempty" yaml:"mass,omitempty"`
	Width      float64 `json:"width,omitempty" yaml:"width,omitempty"`
	Height     float64 `json:"height,omitempty" yaml:"height,omitempty"`
	Radius     float64 `json:"radius,omitempty" yaml:"radius,omitempty"`
	Friction   float64 `json:"friction,omitempty" yaml:"friction,omitempty"`
	Elasticity float64 `json:"elasticity,omitempty" yaml:"elasticity,omitempty"`
}

type NativeScriptDoc struct {
	Name  string         `json:"name" yaml:"name"`
	State map[string]any `json:"state,omitempty" yaml:"state,omitempty"`
}
