package vkplayer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReleaserLIFO(t *testing.T) {
	var order []string
	r := &releaser{}
	for _, name := range []string{"instance", "surface", "device", "swapchain"} {
		name := name
		r.push(name, func() { order = append(order, name) })
	}
	assert.Equal(t, 4, r.len())

	r.unwind()
	assert.Equal(t, []string{"swapchain", "device", "surface", "instance"}, order)
	assert.Zero(t, r.len())

	r.unwind()
	assert.Len(t, order, 4, "second unwind must not release again")
}

func TestReleaserPartial(t *testing.T) {
	var order []string
	r := &releaser{}
	r.push("a", func() { order = append(order, "a") })
	r.unwind()
	r.push("b", func() { order = append(order, "b") })
	r.unwind()
	assert.Equal(t, []string{"a", "b"}, order)
}
