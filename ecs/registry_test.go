package ecs

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryAssignsStableIDs(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, ComponentID(0), TypeID[position](r))
	assert.Equal(t, ComponentID(1), TypeID[velocity](r))
	assert.Equal(t, ComponentID(0), TypeID[position](r), "first call wins")
	assert.Equal(t, 2, r.Len())

	id, ok := r.Lookup(reflect.TypeFor[velocity]())
	require.True(t, ok)
	assert.Equal(t, ComponentID(1), id)
	_, ok = r.Lookup(reflect.TypeFor[health]())
	assert.False(t, ok)

	assert.Equal(t, "ecs.position", r.Name(0))
	assert.Equal(t, "unknown", r.Name(99))
}

func TestRegistryLimit(t *testing.T) {
	r := NewRegistry()
	for i := 0; i < MaxComponents; i++ {
		r.idFor(reflect.ArrayOf(i, reflect.TypeFor[int]()))
	}
	require.Equal(t, MaxComponents, r.Len())

	defer func() {
		err, ok := recover().(error)
		require.True(t, ok)
		assert.True(t, errors.Is(err, ErrTooManyComponents))
	}()
	TypeID[position](r)
}

func TestSignature(t *testing.T) {
	s := NewSignature(0, 63, 64, 127)
	assert.True(t, s.Has(0))
	assert.True(t, s.Has(64))
	assert.True(t, s.Has(127))
	assert.False(t, s.Has(1))
	assert.False(t, s.Has(MaxComponents))
	assert.Equal(t, 4, s.Count())
	assert.Equal(t, []ComponentID{0, 63, 64, 127}, s.IDs())
	assert.Equal(t, "{0,63,64,127}", s.String())

	s.Clear(63)
	assert.False(t, s.Has(63))

	cases := []struct {
		name     string
		have     Signature
		required Signature
		want     bool
	}{
		{"superset", NewSignature(1, 2, 70), NewSignature(2, 70), true},
		{"equal", NewSignature(5), NewSignature(5), true},
		{"missing_high_word", NewSignature(1, 2), NewSignature(2, 70), false},
		{"empty_required", NewSignature(3), Signature{}, true},
		{"empty_have", Signature{}, NewSignature(3), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, c.have.Contains(c.required))
		})
	}
	assert.True(t, Signature{}.IsZero())
}

func TestEntitySet(t *testing.T) {
	var s EntitySet
	a, b, c := ent(0, 1), ent(1, 1), ent(2, 1)

	assert.True(t, s.Insert(a))
	assert.True(t, s.Insert(b))
	assert.True(t, s.Insert(c))
	assert.False(t, s.Insert(b), "insert is idempotent")
	assert.Equal(t, 3, s.Len())

	assert.True(t, s.Erase(a))
	assert.False(t, s.Erase(a), "erase is idempotent")
	assert.False(t, s.Contains(a))
	assert.ElementsMatch(t, []Entity{b, c}, s.Snapshot())

	// the snapshot is detached from later mutation
	var seen []Entity
	for e := range s.All() {
		s.Erase(e)
		seen = append(seen, e)
	}
	assert.Len(t, seen, 2)
	assert.Equal(t, 0, s.Len())
}

func TestEntityManager(t *testing.T) {
	m := NewEntityManager(2)
	e1 := m.CreateEntity()
	e2 := m.CreateEntity()
	assert.False(t, m.CreateEntity().Valid())
	assert.Equal(t, uint32(2), m.EntityCount())
	assert.Equal(t, uint32(2), m.Capacity())

	m.DestroyEntity(e1)
	assert.False(t, m.IsAlive(e1))
	assert.True(t, m.IsAlive(e2))
	assert.Panics(t, func() { m.DestroyEntity(e1) })
	assert.False(t, m.IsAlive(InvalidEntity))
}
