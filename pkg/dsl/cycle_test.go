package dsl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathTracker_EnterLeave(t *testing.T) {
	tr := newPathTracker()
	_, ok := tr.enter("a")
	assert.True(t, ok)
	_, ok = tr.enter("b")
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, tr.path())

	tr.leave()
	assert.Equal(t, []string{"a"}, tr.path())
}

func TestPathTracker_DetectsCycle(t *testing.T) {
	tr := newPathTracker()
	tr.enter("a")
	tr.enter("b")
	chain, ok := tr.enter("a")
	assert.False(t, ok)
	assert.Equal(t, []string{"a", "b", "a"}, chain)
}
