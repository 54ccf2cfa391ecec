package game

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"github.com/milk9111/gecore/common"
	"github.com/milk9111/gecore/ecs"
	"github.com/milk9111/gecore/ecs/component"
	"github.com/milk9111/gecore/ecs/system"
	"github.com/milk9111/gecore/levels"
	"github.com/milk9111/gecore/prefabs"
	"github.com/milk9111/gecore/scene"
)

// Game owns a world, its systems and the scene it was loaded from, and
// advances them one fixed step at a time.
type Game struct {
	cfg    Config
	logger zerolog.Logger

	world      *ecs.World
	scripts    *component.ScriptRegistry
	serializer *scene.Serializer

	scriptSystem *system.ScriptSystem
	physics      *system.PhysicsSystem
	movement     *system.MovementSystem
	render       *system.RenderSystem
	draw         *system.DrawList

	watcher *prefabs.Watcher
	pending map[string]struct{}

	frame  int
	events map[ecs.EventKind]int
}

// New builds a game and loads its scene.
func New(cfg Config, logger zerolog.Logger) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.PrefabDir != "" {
		prefabs.Dir = cfg.PrefabDir
	}

	g := &Game{
		cfg:     cfg,
		logger:  logger,
		world:   ecs.NewWorld(ecs.WithCapacity(uint32(cfg.Capacity)), ecs.WithLogger(logger)),
		scripts: component.NewScriptRegistry(),
		draw:    &system.DrawList{},
		pending: make(map[string]struct{}),
		events:  make(map[ecs.EventKind]int),
	}
	if err := prefabs.RegisterScripts(g.scripts); err != nil {
		return nil, err
	}

	// registration order is update order
	g.scriptSystem = system.NewScriptSystem(g.world)
	g.physics = system.NewPhysicsSystem(g.world, common.Vec2{Y: cfg.Gravity})
	g.movement = system.NewMovementSystem(g.world)
	g.render = system.NewRenderSystem(g.world, g.draw)
	g.render.SetCamera(&system.Camera{Zoom: 1})

	g.serializer = scene.NewSerializer(g.world, g.scripts)

	if err := g.load(); err != nil {
		return nil, err
	}
	if cfg.HotReload {
		if err := g.watch(); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func (g *Game) World() *ecs.World {
	return g.world
}

func (g *Game) Scripts() *component.ScriptRegistry {
	return g.scripts
}

func (g *Game) Serializer() *scene.Serializer {
	return g.serializer
}

// DrawList returns the commands recorded by the last frame.
func (g *Game) DrawList() *system.DrawList {
	return g.draw
}

func (g *Game) Frame() int {
	return g.frame
}

// EventCount returns how many lifecycle events of kind have been drained
// since the game started.
func (g *Game) EventCount(kind ecs.EventKind) int {
	return g.events[kind]
}

// Update runs one frame: scripts, physics and movement, then render. Queued
// lifecycle events are drained and pending file reloads applied last.
func (g *Game) Update(dt float64) error {
	g.world.Update(dt)

	g.draw.Reset()
	g.render.Render(g.world)

	g.drainEvents()

	g.frame++
	return g.applyReloads()
}

// Reset tears the world down and reloads the scene. Scripts get OnDestroy
// and physics bodies are removed before entities are destroyed.
func (g *Game) Reset() error {
	g.scriptSystem.Shutdown(g.world)
	g.physics.Shutdown()
	n := g.world.Clear()
	g.drainEvents()
	g.logger.Info().Int("destroyed", n).Msg("world reset")
	return g.load()
}

// Save writes the world to path, JSON or YAML by extension.
func (g *Game) Save(path string) error {
	return g.serializer.Serialize(path)
}

// Run steps the game until frames have run or ctx is done. frames <= 0 runs
// in real time until ctx is done; otherwise frames are stepped back to back.
func (g *Game) Run(ctx context.Context, frames int) error {
	step := g.cfg.Step()
	if frames > 0 {
		for i := 0; i < frames; i++ {
			if err := ctx.Err(); err != nil {
				return nil
			}
			if err := g.Update(step); err != nil {
				return err
			}
		}
		return nil
	}

	ticker := time.NewTicker(time.Duration(step * float64(time.Second)))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := g.Update(step); err != nil {
				return err
			}
		}
	}
}

// Close stops watching files and shuts scripts and physics down.
func (g *Game) Close() error {
	var err error
	if g.watcher != nil {
		err = g.watcher.Close()
		g.watcher = nil
	}
	g.scriptSystem.Shutdown(g.world)
	g.physics.Shutdown()
	return err
}

func (g *Game) drainEvents() {
	for _, evt := range g.world.Events().Drain() {
		g.events[evt.Kind]++
	}
}

func (g *Game) load() error {
	if g.cfg.Scene != "" {
		return g.serializer.Deserialize(g.cfg.Scene)
	}
	if g.cfg.Level != "" {
		doc, err := levels.LoadDocument(g.cfg.Level)
		if err != nil {
			return err
		}
		if _, err := g.serializer.Restore(doc); err != nil {
			return eris.Wrapf(err, "level %s", g.cfg.Level)
		}
		g.logger.Info().Str("level", g.cfg.Level).Int("entities", g.world.EntityCount()).Msg("level loaded")
		return nil
	}
	for _, name := range g.cfg.PrefabList() {
		if _, err := prefabs.Instantiate(g.serializer, g.world, name); err != nil {
			return err
		}
	}
	g.logger.Info().Int("entities", g.world.EntityCount()).Msg("prefabs spawned")
	return nil
}

func (g *Game) watch() error {
	var paths []string
	for _, dir := range []string{prefabs.Dir, filepath.Join(prefabs.Dir, "scripts")} {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			paths = append(paths, dir)
		}
	}
	if g.cfg.Scene != "" {
		paths = append(paths, filepath.Dir(g.cfg.Scene))
	}
	if len(paths) == 0 {
		g.logger.Warn().Msg("hot reload enabled but nothing to watch")
		return nil
	}

	w, err := prefabs.NewWatcher(paths...)
	if err != nil {
		return eris.Wrap(err, "start file watcher")
	}
	g.watcher = w
	g.logger.Info().Strs("paths", paths).Msg("watching for changes")
	return nil
}

// applyReloads collects changed files without blocking. Changed scripts are
// recompiled; any relevant change resets the world.
func (g *Game) applyReloads() error {
	if g.watcher == nil {
		return nil
	}
	for {
		select {
		case path, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return g.flushReloads()
			}
			g.pending[path] = struct{}{}
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return g.flushReloads()
			}
			g.logger.Warn().Err(err).Msg("file watcher")
		default:
			return g.flushReloads()
		}
	}
}

func (g *Game) flushReloads() error {
	if len(g.pending) == 0 {
		return nil
	}
	reset := false
	for path := range g.pending {
		delete(g.pending, path)
		switch {
		case prefabs.IsScriptFile(path):
			name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			if err := prefabs.RegisterScript(g.scripts, name); err != nil {
				// keep running the last good version
				g.logger.Warn().Err(err).Str("script", name).Msg("script reload failed")
				continue
			}
			reset = true
		case g.cfg.Scene != "" && filepath.Clean(path) == filepath.Clean(g.cfg.Scene):
			reset = true
		case g.cfg.Scene == "" && prefabs.IsSpecFile(path):
			reset = true
		}
		g.logger.Info().Str("path", path).Msg("file changed")
	}
	if !reset {
		return nil
	}
	return g.Reset()
}
