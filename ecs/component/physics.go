package component

import "github.com/jakecoffman/cp"

type BodyKind uint8

const (
	BodyDynamic BodyKind = iota
	BodyKinematic
	BodyStatic
)

func (k BodyKind) String() string {
	switch k {
	case BodyKinematic:
		return "kinematic"
	case BodyStatic:
		return "static"
	default:
		return "dynamic"
	}
}

// ParseBodyKind is the inverse of String. Unknown names are dynamic.
func ParseBodyKind(s string) BodyKind {
	switch s {
	case "kinematic":
		return BodyKinematic
	case "static":
		return BodyStatic
	default:
		return BodyDynamic
	}
}

// RigidBody stores Chipmunk2D runtime data and collider configuration. A
// non-zero Radius makes a circle collider, otherwise a Width x Height box.
type RigidBody struct {
	Kind       BodyKind
	Mass       float64
	Width      float64
	Height     float64
	Radius     float64
	Friction   float64
	Elasticity float64

	Body  *cp.Body
	Shape *cp.Shape
}
