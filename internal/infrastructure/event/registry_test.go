package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandlerRegistry(t *testing.T) {
	r := NewHandlerRegistry()
	a := &recordingHandler{}
	b := &recordingHandler{}
	w := &recordingHandler{}

	r.Register(a, "X", "Y")
	r.Register(a, "X")
	r.Register(b, "X")
	r.Register(w)

	assert.Len(t, r.HandlersFor("X"), 3)
	assert.Len(t, r.HandlersFor("Y"), 2)
	assert.Len(t, r.HandlersFor("Z"), 1)
	assert.Equal(t, 3, r.Len())

	r.Unregister(a)
	assert.Len(t, r.HandlersFor("X"), 2)
	assert.Len(t, r.HandlersFor("Y"), 1)
	assert.Equal(t, 2, r.Len())
}

func TestHandlerRegistry_WildcardAlsoTyped(t *testing.T) {
	r := NewHandlerRegistry()
	h := &recordingHandler{}
	r.Register(h, "X")
	r.Register(h)

	assert.Len(t, r.HandlersFor("X"), 1)
}
