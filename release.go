package vkplayer

import (
	"log/slog"
)

type release struct {
	name string
	fn   func()
}

// releaser records teardown steps as objects are created and runs them in
// reverse order. Each step runs at most once.
type releaser struct {
	log   *slog.Logger
	steps []release
}

func (r *releaser) push(name string, fn func()) {
	r.steps = append(r.steps, release{name: name, fn: fn})
}

func (r *releaser) len() int {
	return len(r.steps)
}

// unwind releases everything pushed so far, newest first.
func (r *releaser) unwind() {
	for len(r.steps) > 0 {
		last := r.steps[len(r.steps)-1]
		r.steps = r.steps[:len(r.steps)-1]
		if r.log != nil {
			r.log.Debug("vulkan: release", "object", last.name)
		}
		last.fn()
	}
}
