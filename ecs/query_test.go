package ecs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type compX struct{ V int }
type compY struct{ V int }
type compZ struct{ V int }
type compW struct{ V int }

func TestQueryIntersection(t *testing.T) {
	w := NewWorld()
	a := newEntity(t, w)
	b := newEntity(t, w)
	c := newEntity(t, w)

	require.NoError(t, Add(w, a, compX{}))
	require.NoError(t, Add(w, c, compX{}))
	require.NoError(t, Add(w, b, compY{}))
	require.NoError(t, Add(w, c, compY{}))

	assert.Equal(t, []Entity{c}, Query2[compX, compY](w).Collect())
	assert.Equal(t, []Entity{c}, Query2[compY, compX](w).Collect())
	assert.ElementsMatch(t, []Entity{a, c}, Query[compX](w).Collect())
}

func TestQueryArity(t *testing.T) {
	tests := []struct {
		name string
		run  func(t *testing.T)
	}{
		{
			name: "three",
			run: func(t *testing.T) {
				w := NewWorld()
				e1, e2, e3 := newEntity(t, w), newEntity(t, w), newEntity(t, w)
				require.NoError(t, Add(w, e1, compX{}))
				require.NoError(t, Add(w, e2, compX{}))
				require.NoError(t, Add(w, e2, compY{}))
				require.NoError(t, Add(w, e2, compZ{}))
				require.NoError(t, Add(w, e3, compY{}))
				require.NoError(t, Add(w, e3, compZ{}))
				assert.Equal(t, []Entity{e2}, Query3[compX, compY, compZ](w).Collect())
			},
		},
		{
			name: "four",
			run: func(t *testing.T) {
				w := NewWorld()
				e1, e2 := newEntity(t, w), newEntity(t, w)
				for _, e := range []Entity{e1, e2} {
					require.NoError(t, Add(w, e, compX{}))
					require.NoError(t, Add(w, e, compY{}))
					require.NoError(t, Add(w, e, compZ{}))
				}
				require.NoError(t, Add(w, e2, compW{}))
				assert.Equal(t, []Entity{e2}, Query4[compX, compY, compZ, compW](w).Collect())
			},
		},
		{
			name: "missing_store_is_empty",
			run: func(t *testing.T) {
				w := NewWorld()
				e := newEntity(t, w)
				require.NoError(t, Add(w, e, compX{}))
				assert.Empty(t, Query2[compY, compX](w).Collect())
				assert.Empty(t, Query2[compX, compY](w).Collect())
			},
		},
		{
			name: "ignores_dead_entities",
			run: func(t *testing.T) {
				w := NewWorld()
				e := newEntity(t, w)
				require.NoError(t, Add(w, e, compX{}))
				require.NoError(t, Add(w, e, compY{}))
				require.True(t, w.DestroyEntity(e))
				assert.Equal(t, 0, Query2[compX, compY](w).Count())
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, tc.run)
	}
}

func TestQueryLazyAndRestartable(t *testing.T) {
	w := NewWorld()
	q := Query[compX](w)
	// built before any storage exists
	assert.False(t, q.Next())
	assert.False(t, q.Entity().Valid())

	e1, e2 := newEntity(t, w), newEntity(t, w)
	require.NoError(t, Add(w, e1, compX{}))
	require.NoError(t, Add(w, e2, compX{}))

	q.Reset()
	var got []Entity
	for q.Next() {
		got = append(got, q.Entity())
	}
	assert.Equal(t, []Entity{e1, e2}, got)
	assert.False(t, q.Next(), "exhausted query stays exhausted")

	assert.Equal(t, 2, q.Count())
	assert.Equal(t, got, q.Collect())

	var first []Entity
	for e := range q.All() {
		first = append(first, e)
		break
	}
	assert.Equal(t, []Entity{e1}, first)
}

func TestQueryValueMutationAllowed(t *testing.T) {
	w := NewWorld()
	for i := 0; i < 5; i++ {
		e := newEntity(t, w)
		require.NoError(t, Add(w, e, compX{V: i}))
		require.NoError(t, Add(w, e, compY{}))
	}
	for e := range Query2[compX, compY](w).All() {
		Ref[compX](w, e).V *= 10
		require.NoError(t, Set(w, e, compY{V: 1}))
	}
	sum := 0
	for _, v := range Array[compX](w).Components() {
		sum += v.V
	}
	assert.Equal(t, 100, sum)
}

func TestQueryStructuralMutationPanics(t *testing.T) {
	w := NewWorld()
	for i := 0; i < 3; i++ {
		e := newEntity(t, w)
		require.NoError(t, Add(w, e, compX{}))
	}

	defer func() {
		err, ok := recover().(error)
		require.True(t, ok)
		assert.True(t, errors.Is(err, ErrQueryInvalidated))
	}()
	for e := range Query[compX](w).All() {
		w.DestroyEntity(e)
	}
	t.Fatal("expected panic")
}

func TestQueryIDs(t *testing.T) {
	w := NewWorld()
	e := newEntity(t, w)
	require.NoError(t, Add(w, e, compX{}))
	require.NoError(t, Add(w, e, compY{}))
	got := QueryIDs(w, ComponentIDOf[compY](w), ComponentIDOf[compX](w)).Collect()
	assert.Equal(t, []Entity{e}, got)
}

func TestGetPanicsWhenAbsent(t *testing.T) {
	w := NewWorld()
	e := newEntity(t, w)
	require.NoError(t, Add(w, e, compX{V: 3}))
	assert.Equal(t, compX{V: 3}, Get[compX](w, e))
	assert.Panics(t, func() { Get[compY](w, e) })
}
