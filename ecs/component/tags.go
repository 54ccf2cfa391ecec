package component

// Tag is a human readable entity name.
type Tag struct {
	Name string
}
