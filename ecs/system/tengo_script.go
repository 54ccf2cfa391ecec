package system

import (
	"regexp"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/rotisserie/eris"

	"github.com/milk9111/gecore/common"
	"github.com/milk9111/gecore/ecs"
	"github.com/milk9111/gecore/ecs/component"
)

// TengoScript is a Script whose hooks live in a tengo source file:
//
//	on_create := func(engine, state) { ... }
//	on_update := func(engine, state, dt) { ... }
//	on_destroy := func(engine, state) { ... }
//
// Every hook is optional. state is a map that persists across frames and is
// saved with the scene. engine exposes host functions bound to the entity.
type TengoScript struct {
	component.ScriptableEntity

	name     string
	compiled *tengo.Compiled
	state    *tengo.Map
	engine   *tengo.ImmutableMap
}

var hookPattern = regexp.MustCompile(`(?m)^\s*(on_create|on_update|on_destroy)\s*:?=`)

// CompileTengoScript compiles src once. The returned factory clones the
// compiled program for each instance.
func CompileTengoScript(name string, src []byte) (func() component.Script, error) {
	hooks := map[string]bool{}
	for _, m := range hookPattern.FindAllSubmatch(src, -1) {
		hooks[string(m[1])] = true
	}

	var dispatch strings.Builder
	dispatch.WriteString("\n")
	if hooks["on_create"] {
		dispatch.WriteString("if __phase == \"create\" { on_create(__engine, __state) }\n")
	}
	if hooks["on_update"] {
		dispatch.WriteString("if __phase == \"update\" { on_update(__engine, __state, __dt) }\n")
	}
	if hooks["on_destroy"] {
		dispatch.WriteString("if __phase == \"destroy\" { on_destroy(__engine, __state) }\n")
	}

	script := tengo.NewScript(append(append([]byte{}, src...), dispatch.String()...))
	_ = script.Add("__phase", "")
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__state", map[string]any{})
	_ = script.Add("__dt", 0.0)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, eris.Wrapf(err, "compile script %q", name)
	}

	return func() component.Script {
		return &TengoScript{
			name:     name,
			compiled: compiled.Clone(),
			state:    &tengo.Map{Value: map[string]tengo.Object{}},
		}
	}, nil
}

// RegisterTengoScript compiles src and registers it under name.
func RegisterTengoScript(r *component.ScriptRegistry, name string, src []byte) error {
	factory, err := CompileTengoScript(name, src)
	if err != nil {
		return err
	}
	r.Register(name, factory)
	return nil
}

func (s *TengoScript) Name() string {
	return s.name
}

func (s *TengoScript) Attach(w *ecs.World, e ecs.Entity) {
	s.ScriptableEntity.Attach(w, e)
	s.engine = s.buildEngine()
}

func (s *TengoScript) OnCreate() {
	s.run("create", 0)
}

func (s *TengoScript) OnUpdate(dt float64) {
	s.run("update", dt)
}

func (s *TengoScript) OnDestroy() {
	s.run("destroy", 0)
}

func (s *TengoScript) OnSerialize() (map[string]any, error) {
	out, _ := objectToAny(s.state).(map[string]any)
	return out, nil
}

func (s *TengoScript) OnDeserialize(state map[string]any) error {
	obj, err := tengo.FromInterface(state)
	if err != nil {
		return eris.Wrapf(err, "script %q state", s.name)
	}
	m, ok := obj.(*tengo.Map)
	if !ok {
		return eris.Errorf("script %q state is %s, not a map", s.name, obj.TypeName())
	}
	s.state = m
	return nil
}

// State returns a copy of the script state.
func (s *TengoScript) State() map[string]any {
	out, _ := s.OnSerialize()
	return out
}

func (s *TengoScript) run(phase string, dt float64) {
	if s.compiled == nil {
		return
	}
	if s.engine == nil {
		s.engine = s.buildEngine()
	}
	err := s.set(phase, dt)
	if err == nil {
		err = s.compiled.Run()
	}
	if err != nil && s.World() != nil {
		s.World().Logger().Error().Err(err).Str("script", s.name).Str("phase", phase).
			Stringer("entity", s.Entity()).Msg("script error")
	}
}

func (s *TengoScript) set(phase string, dt float64) error {
	if err := s.compiled.Set("__phase", phase); err != nil {
		return err
	}
	if err := s.compiled.Set("__engine", s.engine); err != nil {
		return err
	}
	if err := s.compiled.Set("__state", s.state); err != nil {
		return err
	}
	return s.compiled.Set("__dt", dt)
}

func (s *TengoScript) buildEngine() *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["entity"] = &tengo.UserFunction{Name: "entity", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.String{Value: s.Entity().String()}, nil
	}}

	values["get_position"] = &tengo.UserFunction{Name: "get_position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		t, ok := s.transform()
		if !ok {
			return vec3Object(common.Vec3{}), nil
		}
		return vec3Object(t.Translation), nil
	}}

	values["set_position"] = &tengo.UserFunction{Name: "set_position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		t, ok := s.transform()
		if !ok {
			return tengo.FalseValue, nil
		}
		t.Translation = vec3Args(args, t.Translation)
		return tengo.TrueValue, nil
	}}

	values["translate"] = &tengo.UserFunction{Name: "translate", Value: func(args ...tengo.Object) (tengo.Object, error) {
		t, ok := s.transform()
		if !ok {
			return tengo.FalseValue, nil
		}
		t.Translation = t.Translation.Add(vec3Args(args, common.Vec3{}))
		return tengo.TrueValue, nil
	}}

	values["get_velocity"] = &tengo.UserFunction{Name: "get_velocity", Value: func(args ...tengo.Object) (tengo.Object, error) {
		v, _ := ecs.TryGet[component.Velocity](s.World(), s.Entity())
		return vec3Object(v.Linear), nil
	}}

	values["set_velocity"] = &tengo.UserFunction{Name: "set_velocity", Value: func(args ...tengo.Object) (tengo.Object, error) {
		v, _ := ecs.TryGet[component.Velocity](s.World(), s.Entity())
		v.Linear = vec3Args(args, v.Linear)
		if err := ecs.Set(s.World(), s.Entity(), v); err != nil {
			return tengo.FalseValue, nil
		}
		return tengo.TrueValue, nil
	}}

	values["has"] = &tengo.UserFunction{Name: "has", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		if hasNamed(s.World(), s.Entity(), objectAsString(args[0])) {
			return tengo.TrueValue, nil
		}
		return tengo.FalseValue, nil
	}}

	values["destroy"] = &tengo.UserFunction{Name: "destroy", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if s.World().DestroyEntity(s.Entity()) {
			return tengo.TrueValue, nil
		}
		return tengo.FalseValue, nil
	}}

	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			parts = append(parts, objectAsString(a))
		}
		if w := s.World(); w != nil {
			w.Logger().Info().Str("script", s.name).Stringer("entity", s.Entity()).Msg(strings.Join(parts, " "))
		}
		return tengo.UndefinedValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func (s *TengoScript) transform() (*component.Transform, bool) {
	w := s.World()
	if !ecs.Has[component.Transform](w, s.Entity()) {
		return nil, false
	}
	return ecs.Ref[component.Transform](w, s.Entity()), true
}

func hasNamed(w *ecs.World, e ecs.Entity, name string) bool {
	switch name {
	case "transform":
		return ecs.Has[component.Transform](w, e)
	case "velocity":
		return ecs.Has[component.Velocity](w, e)
	case "sprite":
		return ecs.Has[component.Sprite](w, e)
	case "mesh":
		return ecs.Has[component.Mesh](w, e)
	case "rigid_body":
		return ecs.Has[component.RigidBody](w, e)
	case "tag":
		return ecs.Has[component.Tag](w, e)
	case "native_script":
		return ecs.Has[component.NativeScript](w, e)
	default:
		return false
	}
}

func vec3Object(v common.Vec3) *tengo.Array {
	return &tengo.Array{Value: []tengo.Object{
		&tengo.Float{Value: v.X},
		&tengo.Float{Value: v.Y},
		&tengo.Float{Value: v.Z},
	}}
}

// vec3Args reads x, y[, z] from args, or from a single array argument.
// Missing components keep the value from def.
func vec3Args(args []tengo.Object, def common.Vec3) common.Vec3 {
	if len(args) == 1 {
		if arr, ok := args[0].(*tengo.Array); ok {
			args = arr.Value
		}
	}
	out := [3]float64{def.X, def.Y, def.Z}
	for i := 0; i < len(args) && i < 3; i++ {
		if f, ok := objectToFloat(args[i]); ok {
			out[i] = f
		}
	}
	return common.Vec3{X: out[0], Y: out[1], Z: out[2]}
}

func objectToFloat(obj tengo.Object) (float64, bool) {
	switch v := obj.(type) {
	case *tengo.Float:
		return v.Value, true
	case *tengo.Int:
		return float64(v.Value), true
	default:
		return 0, false
	}
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}

func objectToAny(obj tengo.Object) any {
	if obj == nil {
		return nil
	}

	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	case *tengo.Int:
		return v.Value
	case *tengo.Float:
		return v.Value
	case *tengo.Bool:
		return !v.IsFalsy()
	case *tengo.Array:
		out := make([]any, 0, len(v.Value))
		for _, item := range v.Value {
			out = append(out, objectToAny(item))
		}
		return out
	case *tengo.Map:
		out := make(map[string]any, len(v.Value))
		for k, item := range v.Value {
			out[k] = objectToAny(item)
		}
		return out
	case *tengo.ImmutableMap:
		out := make(map[string]any, len(v.Value))
		for k, item := range v.Value {
			out[k] = objectToAny(item)
		}
		return out
	case *tengo.Undefined:
		return nil
	default:
		return v.String()
	}
}
