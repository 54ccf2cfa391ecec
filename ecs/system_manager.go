package ecs

import (
	"reflect"

	"github.com/rotisserie/eris"
)

type systemEntry struct {
	typ       reflect.Type
	sys       System
	signature Signature
	hasSig    bool
}

// SystemManager owns the registered systems and their required signatures.
// Every signature change is tested against every system, so the cost of a
// component add or remove grows with the number of systems.
type SystemManager struct {
	ordered []*systemEntry
	byType  map[reflect.Type]*systemEntry
}

func NewSystemManager() *SystemManager {
	return &SystemManager{byType: make(map[reflect.Type]*systemEntry)}
}

// Register adds sys under typ. Systems run and are matched in registration order.
func (m *SystemManager) Register(typ reflect.Type, sys System) error {
	if _, ok := m.byType[typ]; ok {
		return eris.Wrapf(ErrSystemRegistered, "%s", typ)
	}
	entry := &systemEntry{typ: typ, sys: sys}
	m.byType[typ] = entry
	m.ordered = append(m.ordered, entry)
	return nil
}

// SetSignature sets the components a system requires. A system without a
// signature matches no entities.
func (m *SystemManager) SetSignature(typ reflect.Type, sig Signature) error {
	entry, ok := m.byType[typ]
	if !ok {
		return eris.Wrapf(ErrSystemNotRegistered, "%s", typ)
	}
	entry.signature = sig
	entry.hasSig = true
	entry.sys.base().entities.clear()
	return nil
}

// Signature returns the required signature of a registered system.
func (m *SystemManager) Signature(typ reflect.Type) (Signature, bool) {
	entry, ok := m.byType[typ]
	if !ok || !entry.hasSig {
		return Signature{}, false
	}
	return entry.signature, true
}

// EntitySignatureChanged recomputes e's membership in every system.
func (m *SystemManager) EntitySignatureChanged(e Entity, sig Signature) {
	for _, entry := range m.ordered {
		m.refresh(entry, e, sig)
	}
}

func (m *SystemManager) refresh(entry *systemEntry, e Entity, sig Signature) {
	set := &entry.sys.base().entities
	if entry.hasSig && sig.Contains(entry.signature) {
		set.Insert(e)
	} else {
		set.Erase(e)
	}
}

// EntityDestroyed removes e from every system.
func (m *SystemManager) EntityDestroyed(e Entity) {
	for _, entry := range m.ordered {
		entry.sys.base().entities.Erase(e)
	}
}

// Lookup returns the system registered under typ.
func (m *SystemManager) Lookup(typ reflect.Type) (System, bool) {
	entry, ok := m.byType[typ]
	if !ok {
		return nil, false
	}
	return entry.sys, true
}

// Systems returns the registered systems in registration order.
func (m *SystemManager) Systems() []System {
	out := make([]System, 0, len(m.ordered))
	for _, entry := range m.ordered {
		out = append(out, entry.sys)
	}
	return out
}

// Names returns the registered system type names in registration order.
func (m *SystemManager) Names() []string {
	out := make([]string, 0, len(m.ordered))
	for _, entry := range m.ordered {
		out = append(out, entry.typ.String())
	}
	return out
}

func (m *SystemManager) Len() int {
	return len(m.ordered)
}
