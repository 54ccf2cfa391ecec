package component

import "github.com/milk9111/gecore/common"

// Velocity is in units per second.
type Velocity struct {
	Linear common.Vec3
}
