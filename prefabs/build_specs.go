package prefabs

import (
	"github.com/rotisserie/eris"

	"github.com/milk9111/gecore/ecs"
	"github.com/milk9111/gecore/ecs/component"
	"github.com/milk9111/gecore/ecs/system"
	"github.com/milk9111/gecore/scene"
)

// EntityBuildSpec is a prefab: a named set of components in the same shape a
// scene document uses.
type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(name string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](name)
}

// Instantiate creates an entity from the named prefab. Components are decoded
// with s, so any codec registered there is available to prefabs. The entity
// gets a Tag with the prefab name unless the prefab sets one.
func Instantiate(s *scene.Serializer, w *ecs.World, name string) (ecs.Entity, error) {
	spec, err := LoadEntityBuildSpec(name)
	if err != nil {
		return ecs.InvalidEntity, err
	}

	e, err := w.CreateEntity()
	if err != nil {
		return ecs.InvalidEntity, eris.Wrapf(err, "prefabs: instantiate %s", name)
	}
	if err := s.RestoreEntity(e, spec.Components); err != nil {
		w.DestroyEntity(e)
		return ecs.InvalidEntity, eris.Wrapf(err, "prefabs: instantiate %s", name)
	}
	if !ecs.Has[component.Tag](w, e) {
		tag := spec.Name
		if tag == "" {
			tag = name
		}
		if err := ecs.Set(w, e, component.Tag{Name: tag}); err != nil {
			return ecs.InvalidEntity, err
		}
	}
	if !ecs.Has[component.ID](w, e) {
		if err := ecs.Set(w, e, component.NewID()); err != nil {
			return ecs.InvalidEntity, err
		}
	}

	w.Logger().Debug().Str("prefab", name).Stringer("entity", e).Msg("prefab instantiated")
	return e, nil
}

// RegisterScripts compiles every embedded script, preferring on-disk copies,
// and registers each under its name.
func RegisterScripts(r *component.ScriptRegistry) error {
	for _, name := range ScriptNames() {
		if err := RegisterScript(r, name); err != nil {
			return err
		}
	}
	return nil
}

// RegisterScript (re)compiles one script and registers it under name.
func RegisterScript(r *component.ScriptRegistry, name string) error {
	src, err := LoadScript(name)
	if err != nil {
		return eris.Wrapf(err, "prefabs: load script %s", name)
	}
	if err := system.RegisterTengoScript(r, name, src); err != nil {
		return eris.Wrapf(err, "prefabs: script %s", name)
	}
	return nil
}

