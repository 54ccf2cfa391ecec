package log

import (
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/milk9111/gecore/ecs"
)

// New builds a logger writing to w. Pretty selects the human readable console
// format instead of JSON lines.
func New(w io.Writer, level zerolog.Level, pretty bool) zerolog.Logger {
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// ParseLevel is zerolog.ParseLevel with info as the fallback for an empty
// string.
func ParseLevel(s string) (zerolog.Level, error) {
	if s == "" {
		return zerolog.InfoLevel, nil
	}
	return zerolog.ParseLevel(s)
}

func loadComponentIntoArrayLogger(r *ecs.Registry, id ecs.ComponentID, arrayLogger *zerolog.Array) *zerolog.Array {
	dictLogger := zerolog.Dict()
	dictLogger = dictLogger.Int("component_id", int(id))
	dictLogger = dictLogger.Str("component_name", r.Name(id))
	return arrayLogger.Dict(dictLogger)
}

func loadComponentsToEvent(zeroLoggerEvent *zerolog.Event, w *ecs.World) *zerolog.Event {
	r := w.Registry()
	zeroLoggerEvent.Int("total_components", r.Len())
	arrayLogger := zerolog.Arr()
	for id := 0; id < r.Len(); id++ {
		arrayLogger = loadComponentIntoArrayLogger(r, ecs.ComponentID(id), arrayLogger)
	}
	return zeroLoggerEvent.Array("components", arrayLogger)
}

func loadSystemIntoEvent(zeroLoggerEvent *zerolog.Event, w *ecs.World) *zerolog.Event {
	names := w.Systems().Names()
	zeroLoggerEvent.Int("total_systems", len(names))
	arrayLogger := zerolog.Arr()
	for _, name := range names {
		arrayLogger = arrayLogger.Str(name)
	}
	return zeroLoggerEvent.Array("systems", arrayLogger)
}

// Components logs every registered component type.
func Components(logger *zerolog.Logger, w *ecs.World, level zerolog.Level) {
	loadComponentsToEvent(logger.WithLevel(level), w).Send()
}

// Systems logs every registered system in update order.
func Systems(logger *zerolog.Logger, w *ecs.World, level zerolog.Level) {
	loadSystemIntoEvent(logger.WithLevel(level), w).Send()
}

// Entity logs the components of e. Stale handles are logged as not alive.
func Entity(logger *zerolog.Logger, w *ecs.World, e ecs.Entity, level zerolog.Level) {
	zeroLoggerEvent := logger.WithLevel(level).Stringer("entity", e).Bool("alive", w.IsAlive(e))
	if w.IsAlive(e) {
		r := w.Registry()
		arrayLogger := zerolog.Arr()
		for _, id := range w.Signature(e).IDs() {
			arrayLogger = loadComponentIntoArrayLogger(r, id, arrayLogger)
		}
		zeroLoggerEvent.Array("components", arrayLogger)
	}
	zeroLoggerEvent.Send()
}

// World logs everything about the world: components, systems and counts.
func World(logger *zerolog.Logger, w *ecs.World, level zerolog.Level) {
	zeroLoggerEvent := logger.WithLevel(level)
	zeroLoggerEvent = loadComponentsToEvent(zeroLoggerEvent, w)
	zeroLoggerEvent = loadSystemIntoEvent(zeroLoggerEvent, w)
	zeroLoggerEvent.Int("entities", w.EntityCount()).Uint32("capacity", w.Capacity()).Send()
}

// CreateSystemLogger creates a sub logger with the entry {"system": systemName}.
func CreateSystemLogger(logger *zerolog.Logger, systemName string) *zerolog.Logger {
	newLogger := logger.With().Str("system", systemName).Logger()
	return &newLogger
}
