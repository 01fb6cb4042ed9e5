// Package window provides the GLFW window the player presents into, and the
// process-wide window system state it depends on.
//
// IMPORTANT: every function here must be called on the main thread.
package window

import (
	"sync"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// ErrTerminated is returned by Init once the window system was shut down.
// GLFW state does not survive a terminate, so it is not brought back.
var ErrTerminated = errors.New("window: window system already terminated")

type systemState int

const (
	stateFresh systemState = iota
	stateReady
	stateTerminated
)

// system tracks the one window system of the process.
type system struct {
	mu        sync.Mutex
	state     systemState
	init      func() error
	terminate func()
}

var sys = &system{init: initGLFW, terminate: glfw.Terminate}

func initGLFW() error {
	if err := glfw.Init(); err != nil {
		return errors.Wrap(err, "glfw")
	}
	vk.SetGetInstanceProcAddr(glfw.GetVulkanGetInstanceProcAddress())
	if err := vk.Init(); err != nil {
		glfw.Terminate()
		return errors.Wrap(err, "vulkan loader")
	}
	return nil
}

func (s *system) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case stateReady:
		return nil
	case stateTerminated:
		return ErrTerminated
	}
	if err := s.init(); err != nil {
		return err
	}
	s.state = stateReady
	return nil
}

func (s *system) Terminate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == stateReady {
		s.terminate()
	}
	s.state = stateTerminated
}

func (s *system) ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == stateReady
}

// Init brings up GLFW and the Vulkan loader. Repeated calls are no-ops.
func Init() error {
	return sys.Init()
}

// Terminate shuts the window system down. Call it last, after every window
// is destroyed.
func Terminate() {
	sys.Terminate()
}

// ProcAddr is the loader's vkGetInstanceProcAddr, for entry points the
// Vulkan bindings do not cover.
func ProcAddr() unsafe.Pointer {
	return glfw.GetVulkanGetInstanceProcAddress()
}
