package dsl

// pathTracker tracks the current DFS path through a graph of named nodes
// (import targets, or type names under derived_from) so that a cycle is
// reported as the exact chain that closes it, not just the offending name.
//
// Both the import loader and the type resolver use this one tracker. Each
// walks its own graph (an import's resolved targets, a type's derived_from
// parent) and calls enter/leave around every node it expands; the tracker
// itself does not know how to find a node's neighbors.
type pathTracker struct {
	stack   []string
	onStack map[string]bool
}

func newPathTracker() *pathTracker {
	return &pathTracker{onStack: map[string]bool{}}
}

// enter pushes name onto the current path. If name is already on the path,
// it returns the closing chain (path... plus name again) and false; the
// caller must not recurse into name's neighbors in that case.
func (t *pathTracker) enter(name string) (chain []string, ok bool) {
	if t.onStack[name] {
		closed := append(append([]string{}, t.stack...), name)
		return closed, false
	}
	t.stack = append(t.stack, name)
	t.onStack[name] = true
	return nil, true
}

// leave pops the most recently entered name. Callers must pair every
// successful enter with a leave once that name's neighbors are exhausted.
func (t *pathTracker) leave() {
	if len(t.stack) == 0 {
		return
	}
	last := t.stack[len(t.stack)-1]
	t.stack = t.stack[:len(t.stack)-1]
	delete(t.onStack, last)
}

// path returns a snapshot of the current path, root first.
func (t *pathTracker) path() []string {
	out := make([]string, len(t.stack))
	copy(out, t.stack)
	return out
}
