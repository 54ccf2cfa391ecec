package ecs

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/gecore/container"
)

func ent(index, version uint32) Entity {
	return container.MakeHandle[EntityMarker](index, version)
}

func TestComponentArrayInsertRemove(t *testing.T) {
	arr := NewComponentArray[int]()
	a, b, c := ent(0, 1), ent(1, 1), ent(2, 1)

	arr.InsertData(a, 10)
	arr.InsertData(b, 20)
	arr.InsertData(c, 30)
	require.Equal(t, 3, arr.Len())

	require.True(t, arr.RemoveData(a))
	assert.Equal(t, 2, arr.Len())
	assert.False(t, arr.HasData(a))
	// c moved into a's slot
	assert.Equal(t, []Entity{c, b}, arr.Entities())
	assert.Equal(t, []int{30, 20}, arr.Components())
	assert.Equal(t, 30, *arr.GetData(c))
	assert.Equal(t, 20, *arr.GetData(b))

	assert.False(t, arr.RemoveData(a), "second removal is a no-op")
	require.True(t, arr.RemoveData(b))
	require.True(t, arr.RemoveData(c))
	assert.Equal(t, 0, arr.Len())
}

func TestComponentArrayStaleHandle(t *testing.T) {
	arr := NewComponentArray[string]()
	old := ent(4, 1)
	reused := ent(4, 2)

	arr.InsertData(reused, "new")
	assert.False(t, arr.HasData(old))
	assert.False(t, arr.RemoveData(old))
	assert.True(t, arr.HasData(reused))
	assert.Panics(t, func() { arr.GetData(old) })
}

func TestComponentArrayContractViolations(t *testing.T) {
	t.Run("duplicate_insert", func(t *testing.T) {
		arr := NewComponentArray[int]()
		arr.InsertData(ent(0, 1), 1)
		defer func() {
			err, ok := recover().(error)
			require.True(t, ok)
			assert.True(t, errors.Is(err, ErrDuplicateComponent))
		}()
		arr.InsertData(ent(0, 1), 2)
	})

	t.Run("missing_get", func(t *testing.T) {
		arr := NewComponentArray[int]()
		defer func() {
			err, ok := recover().(error)
			require.True(t, ok)
			assert.True(t, errors.Is(err, ErrMissingComponent))
		}()
		arr.GetData(ent(0, 1))
	})

	t.Run("entity_destroyed_absent_is_noop", func(t *testing.T) {
		arr := NewComponentArray[int]()
		assert.NotPanics(t, func() { arr.EntityDestroyed(ent(9, 1)) })
	})
}

func TestComponentArrayPackedIntegrity(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	arr := NewComponentArray[int]()
	want := map[Entity]int{}

	for step := 0; step < 2000; step++ {
		e := ent(uint32(rng.Intn(64)), 1)
		if _, ok := want[e]; ok {
			if rng.Intn(3) == 0 {
				v := rng.Int()
				*arr.GetData(e) = v
				want[e] = v
				continue
			}
			require.True(t, arr.RemoveData(e))
			delete(want, e)
			continue
		}
		v := rng.Int()
		arr.InsertData(e, v)
		want[e] = v
	}

	require.Equal(t, len(want), arr.Len())
	require.Len(t, arr.Entities(), len(want))
	seen := map[Entity]bool{}
	for i, e := range arr.Entities() {
		require.False(t, seen[e], "duplicate entity %s in dense array", e)
		seen[e] = true
		assert.Equal(t, want[e], arr.Components()[i])
	}
	for e, v := range want {
		assert.Equal(t, v, *arr.GetData(e))
	}
}

func TestComponentArrayRemovalRelocatesLastElement(t *testing.T) {
	arr := NewComponentArray[int]()
	first, last := ent(0, 1), ent(1, 1)
	arr.InsertData(first, 1)
	arr.InsertData(last, 2)

	lastRef := arr.GetData(last)
	require.True(t, arr.RemoveData(first))

	// the value moved into slot 0; the old pointer now aliases a cleared tail
	assert.Equal(t, 2, *arr.GetData(last))
	assert.NotSame(t, lastRef, arr.GetData(last))
	assert.Equal(t, 0, *lastRef)
}
