package api

// First returns the completion of one entry of the Completions map. The
// entry is an arbitrary, unspecified member: Go map iteration order is
// undefined, so callers must not depend on which completion is returned
// when more than one model responded. Use the map directly to address a
// specific model.
//
// An empty map returns ErrNoCompletions.
func (d *CompletionData) First() (Completion, error) {
	for _, result := range d.Completions {
		return result.Completion, nil
	}
	return Completion{}, ErrNoCompletions
}
