package component

import "github.com/google/uuid"

// ID is a stable identity that survives save and load, unlike entity handles.
type ID struct {
	UUID uuid.UUID
}

func NewID() ID {
	return ID{UUID: uuid.New()}
}
