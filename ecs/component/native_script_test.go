package component

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/gecore/common"
	"github.com/milk9111/gecore/ecs"
)

type counter struct {
	ScriptableEntity
	created int
}

func (c *counter) OnCreate() { c.created++ }

func (c *counter) OnUpdate(dt float64) {
	ScriptComponent[Transform](&c.ScriptableEntity).Translation.X += dt
}

func TestBind(t *testing.T) {
	ns := Bind[counter]("counter")
	assert.Equal(t, "counter", ns.Name)
	assert.Nil(t, ns.Instance)
	require.NotNil(t, ns.Instantiate)

	a, b := ns.Instantiate(), ns.Instantiate()
	assert.NotSame(t, a, b)
	_, ok := a.(*counter)
	assert.True(t, ok)
}

func TestScriptableEntityAccess(t *testing.T) {
	w := ecs.NewWorld()
	e, err := w.CreateEntity()
	require.NoError(t, err)
	require.NoError(t, ecs.Add(w, e, NewTransform(common.Vec3{})))

	s := &counter{}
	s.Attach(w, e)
	assert.Same(t, w, s.World())
	assert.Equal(t, e, s.Entity())

	s.OnCreate()
	s.OnUpdate(0.5)
	s.OnDestroy()
	assert.Equal(t, 1, s.created)
	assert.Equal(t, 0.5, ecs.Get[Transform](w, e).Translation.X)
}

func TestScriptRegistry(t *testing.T) {
	r := NewScriptRegistry()
	RegisterScript[counter](r, "counter")
	r.Register("noop", func() Script { return &ScriptableEntity{} })

	assert.Equal(t, []string{"counter", "noop"}, r.Names())

	ns, ok := r.Bind("counter")
	require.True(t, ok)
	assert.Equal(t, "counter", ns.Name)
	assert.IsType(t, &counter{}, ns.Instantiate())

	_, ok = r.Bind("missing")
	assert.False(t, ok)

	var nilRegistry *ScriptRegistry
	_, ok = nilRegistry.Bind("counter")
	assert.False(t, ok)
}

func TestTransformDefaults(t *testing.T) {
	tr := NewTransform(common.Vec3{X: 1})
	assert.Equal(t, common.IdentityQuat(), tr.Rotation)
	assert.Equal(t, common.Vec3{X: 1, Y: 1, Z: 1}, tr.Scale)
	assert.Equal(t, common.Vec3{X: 3}, tr.Matrix().Apply(common.Vec3{X: 2}))

	assert.Equal(t, BodyStatic, ParseBodyKind(BodyStatic.String()))
	assert.Equal(t, BodyDynamic, ParseBodyKind("bogus"))
}
