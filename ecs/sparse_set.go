package ecs

import "iter"

// EntitySet is an unordered set of entities backed by a dense slice, so
// membership changes are O(1) and iteration is cache friendly. Removal swaps
// the last member into the hole.
type EntitySet struct {
	dense []Entity
	index map[Entity]int
}

// Insert adds e and reports whether it was newly added.
func (s *EntitySet) Insert(e Entity) bool {
	if s.index == nil {
		s.index = make(map[Entity]int)
	}
	if _, ok := s.index[e]; ok {
		return false
	}
	s.index[e] = len(s.dense)
	s.dense = append(s.dense, e)
	return true
}

// Erase removes e and reports whether it was present.
func (s *EntitySet) Erase(e Entity) bool {
	idx, ok := s.index[e]
	if !ok {
		return false
	}
	last := len(s.dense) - 1
	moved := s.dense[last]
	s.dense[idx] = moved
	s.index[moved] = idx
	s.dense = s.dense[:last]
	delete(s.index, e)
	return true
}

func (s *EntitySet) Contains(e Entity) bool {
	_, ok := s.index[e]
	return ok
}

func (s *EntitySet) Len() int {
	return len(s.dense)
}

// Snapshot copies the members. Use it when the loop body may add or remove
// components, since that can change membership mid-iteration.
func (s *EntitySet) Snapshot() []Entity {
	out := make([]Entity, len(s.dense))
	copy(out, s.dense)
	return out
}

// All iterates over a snapshot of the members.
func (s *EntitySet) All() iter.Seq[Entity] {
	members := s.Snapshot()
	return func(yield func(Entity) bool) {
		for _, e := range members {
			if !yield(e) {
				return
			}
		}
	}
}

func (s *EntitySet) clear() {
	s.dense = s.dense[:0]
	clear(s.index)
}
