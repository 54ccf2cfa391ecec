package ecs

import "github.com/rs/zerolog"

type Option func(*World)

// WithCapacity sets the maximum number of simultaneously live entities.
func WithCapacity(capacity uint32) Option {
	return func(w *World) {
		w.capacity = capacity
	}
}

// WithRegistry shares a component registry between worlds.
func WithRegistry(r *Registry) Option {
	return func(w *World) {
		if r != nil {
			w.registry = r
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(w *World) {
		w.logger = logger
	}
}

// WithoutEvents stops the world from recording lifecycle events.
func WithoutEvents() Option {
	return func(w *World) {
		w.events.disabled = true
	}
}
