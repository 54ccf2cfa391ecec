package ecs

import (
	"errors"

	"github.com/milk9111/gecore/container"
)

var (
	// ErrEntityNotAlive is returned when a mutation targets a destroyed or never allocated entity.
	ErrEntityNotAlive = errors.New("ecs: entity not alive")
	// ErrCapacityExhausted is returned by CreateEntity once every entity slot is in use.
	ErrCapacityExhausted = errors.New("ecs: entity capacity exhausted")

	// The errors below describe contract violations. They are never returned;
	// the world panics with a value wrapping one of them.

	ErrDuplicateComponent  = errors.New("ecs: entity already has component")
	ErrMissingComponent    = errors.New("ecs: entity does not have component")
	ErrTooManyComponents   = errors.New("ecs: component type limit exceeded")
	ErrSystemRegistered    = errors.New("ecs: system registered more than once")
	ErrSystemNotRegistered = errors.New("ecs: system used before registration")
	ErrNilSystem           = errors.New("ecs: nil system")
	ErrQueryInvalidated    = errors.New("ecs: component storage mutated during query")
	ErrStaleRelease        = container.ErrStaleRelease
)
