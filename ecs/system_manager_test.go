package ecs

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type alphaSystem struct{ Base }
type betaSystem struct{ Base }

func TestSystemManagerRegistration(t *testing.T) {
	m := NewSystemManager()
	alpha, beta := &alphaSystem{}, &betaSystem{}
	alphaType, betaType := reflect.TypeFor[alphaSystem](), reflect.TypeFor[betaSystem]()

	require.NoError(t, m.Register(alphaType, alpha))
	require.NoError(t, m.Register(betaType, beta))
	assert.ErrorIs(t, m.Register(alphaType, &alphaSystem{}), ErrSystemRegistered)

	assert.Equal(t, 2, m.Len())
	assert.Equal(t, []string{"ecs.alphaSystem", "ecs.betaSystem"}, m.Names())
	assert.Equal(t, []System{alpha, beta}, m.Systems())

	got, ok := m.Lookup(betaType)
	require.True(t, ok)
	assert.Same(t, beta, got)
	_, ok = m.Lookup(reflect.TypeFor[int]())
	assert.False(t, ok)

	assert.ErrorIs(t, m.SetSignature(reflect.TypeFor[int](), Signature{}), ErrSystemNotRegistered)
}

func TestSystemManagerMembership(t *testing.T) {
	m := NewSystemManager()
	alpha, beta := &alphaSystem{}, &betaSystem{}
	alphaType, betaType := reflect.TypeFor[alphaSystem](), reflect.TypeFor[betaSystem]()
	require.NoError(t, m.Register(alphaType, alpha))
	require.NoError(t, m.Register(betaType, beta))

	_, ok := m.Signature(alphaType)
	assert.False(t, ok, "no signature yet")

	require.NoError(t, m.SetSignature(alphaType, NewSignature(0)))
	sig, ok := m.Signature(alphaType)
	require.True(t, ok)
	assert.Equal(t, NewSignature(0), sig)

	e := ent(3, 1)
	m.EntitySignatureChanged(e, NewSignature(0, 1))
	assert.True(t, alpha.Entities().Contains(e))
	assert.False(t, beta.Entities().Contains(e), "unsigned systems match nothing")

	// an empty signature is a real signature and matches everything
	require.NoError(t, m.SetSignature(betaType, Signature{}))
	m.EntitySignatureChanged(e, NewSignature(1))
	assert.False(t, alpha.Entities().Contains(e))
	assert.True(t, beta.Entities().Contains(e))

	m.EntityDestroyed(e)
	assert.Equal(t, 0, alpha.Entities().Len())
	assert.Equal(t, 0, beta.Entities().Len())
}

func TestSystemManagerSetSignatureClearsMembership(t *testing.T) {
	m := NewSystemManager()
	alpha := &alphaSystem{}
	typ := reflect.TypeFor[alphaSystem]()
	require.NoError(t, m.Register(typ, alpha))
	require.NoError(t, m.SetSignature(typ, NewSignature(2)))

	e := ent(0, 1)
	m.EntitySignatureChanged(e, NewSignature(2))
	require.True(t, alpha.Entities().Contains(e))

	// the world rescans live entities after this
	require.NoError(t, m.SetSignature(typ, NewSignature(5)))
	assert.False(t, alpha.Entities().Contains(e))
}
