package vkplayer

import (
	vk "github.com/vulkan-go/vulkan"
)

// Window is the presentation target the pipeline draws into. The window
// package provides the GLFW implementation.
type Window interface {
	// RequiredInstanceExtensions lists the instance extensions surface creation needs.
	RequiredInstanceExtensions() []string
	// CreateSurface creates a presentation surface for the window on instance.
	CreateSurface(instance vk.Instance) (vk.Surface, error)
}

// display is the surface side of the device context.
type display struct {
	window  Window
	surface vk.Surface
	format  vk.SurfaceFormat
}

func newDisplay(window Window, instance vk.Instance) (*display, error) {
	surface, err := window.CreateSurface(instance)
	if err != nil {
		return nil, err
	}
	return &display{window: window, surface: surface}, nil
}

func (d *display) destroy(instance vk.Instance) {
	if d.surface != vk.NullSurface {
		vk.DestroySurface(instance, d.surface, nil)
		d.surface = vk.NullSurface
	}
}
