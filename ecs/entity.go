package ecs

import "github.com/milk9111/gecore/container"

// EntityMarker brands entity handles.
type EntityMarker struct{}

// Entity is a versioned handle: 32-bit index | 32-bit generation. It carries no
// data; it is the key used to look up components in a World.
type Entity = container.Handle[EntityMarker]

// InvalidEntity never refers to a live entity. The zero Entity is invalid too.
var InvalidEntity = container.Invalid[EntityMarker]()

// DefaultCapacity is the entity capacity of a world built without WithCapacity.
const DefaultCapacity uint32 = 10000

// EntityManager allocates, recycles and validates entity handles.
type EntityManager struct {
	pool *container.HandlePool[EntityMarker]
}

func NewEntityManager(capacity uint32) *EntityManager {
	return &EntityManager{pool: container.NewHandlePool[EntityMarker](capacity)}
}

// CreateEntity returns InvalidEntity when the manager is full.
func (m *EntityManager) CreateEntity() Entity {
	return m.pool.Allocate()
}

// DestroyEntity bumps the entity's generation and recycles its index.
func (m *EntityManager) DestroyEntity(e Entity) {
	m.pool.Release(e)
}

func (m *EntityManager) IsAlive(e Entity) bool {
	return m.pool.IsValid(e)
}

func (m *EntityManager) Capacity() uint32 {
	return m.pool.Capacity()
}

func (m *EntityManager) EntityCount() uint32 {
	return m.pool.UsedCount()
}
