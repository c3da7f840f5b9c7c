package sim

// StateError reports an operation requested on a model that is not in a
// usable state (closed or never initialized).
type StateError struct {
	Op string
}

func (e *StateError) Error() string {
	return "model not usable: " + e.Op
}
