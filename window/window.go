package window

import (
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// Options describe the window to open.
type Options struct {
	Title         string
	Width, Height int
	// Position of the top-left corner; nil leaves placement to the window system.
	Position *image.Point
	Icons    []image.Image
}

// Window is a fixed-size GLFW window without a client API, closed by the
// user or by Ctrl+W.
type Window struct {
	handle *glfw.Window
}

// New opens a window. Init must have succeeded first.
func New(opts Options) (*Window, error) {
	if !sys.ready() {
		return nil, errors.New("window: window system not initialized")
	}
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.False)

	handle, err := glfw.CreateWindow(opts.Width, opts.Height, opts.Title, nil, nil)
	if err != nil {
		return nil, errors.Wrap(err, "window: create")
	}
	handle.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if closeRequested(key, action, mods) {
			w.SetShouldClose(true)
		}
	})
	if opts.Position != nil {
		handle.SetPos(opts.Position.X, opts.Position.Y)
	}
	if len(opts.Icons) > 0 {
		handle.SetIcon(opts.Icons)
	}
	return &Window{handle: handle}, nil
}

func closeRequested(key glfw.Key, action glfw.Action, mods glfw.ModifierKey) bool {
	return action == glfw.Press && key == glfw.KeyW && mods&glfw.ModControl != 0
}

func (w *Window) ShouldClose() bool {
	return w.handle.ShouldClose()
}

// Poll processes pending window events.
func (w *Window) Poll() {
	glfw.PollEvents()
}

func (w *Window) Destroy() {
	if w.handle != nil {
		w.handle.Destroy()
		w.handle = nil
	}
}

func (w *Window) RequiredInstanceExtensions() []string {
	return w.handle.GetRequiredInstanceExtensions()
}

// CreateSurface creates the presentation surface of the window.
func (w *Window) CreateSurface(instance vk.Instance) (vk.Surface, error) {
	ptr, err := w.handle.CreateWindowSurface(instance, nil)
	if err != nil {
		return vk.NullSurface, &SurfaceError{Reason: surfaceReason(err), Err: err}
	}
	return vk.SurfaceFromPointer(ptr), nil
}

// SurfaceReason is the category of a surface creation failure.
type SurfaceReason int

const (
	SurfaceUnknown SurfaceReason = iota
	SurfaceExtensionMissing
	SurfaceWindowInUse
	SurfaceLost
	SurfaceOutOfMemory
	SurfaceInitFailed
)

func (r SurfaceReason) String() string {
	switch r {
	case SurfaceExtensionMissing:
		return "required Vulkan extension not present"
	case SurfaceWindowInUse:
		return "native window is already in use"
	case SurfaceLost:
		return "surface lost"
	case SurfaceOutOfMemory:
		return "out of memory"
	case SurfaceInitFailed:
		return "initialization failed"
	}
	return "unknown failure"
}

// ClassifySurfaceResult maps a surface creation result to its category.
func ClassifySurfaceResult(ret vk.Result) SurfaceReason {
	switch ret {
	case vk.ErrorExtensionNotPresent:
		return SurfaceExtensionMissing
	case vk.ErrorNativeWindowInUse:
		return SurfaceWindowInUse
	case vk.ErrorSurfaceLost:
		return SurfaceLost
	case vk.ErrorOutOfHostMemory, vk.ErrorOutOfDeviceMemory:
		return SurfaceOutOfMemory
	case vk.ErrorInitializationFailed:
		return SurfaceInitFailed
	}
	return SurfaceUnknown
}

// surfaceReason recovers the VkResult GLFW appends to its error text.
func surfaceReason(err error) SurfaceReason {
	msg := err.Error()
	if i := strings.LastIndexAny(msg, " :"); i >= 0 {
		msg = msg[i+1:]
	}
	code, convErr := strconv.Atoi(strings.TrimSpace(msg))
	if convErr != nil {
		return SurfaceUnknown
	}
	return ClassifySurfaceResult(vk.Result(code))
}

// SurfaceError is a failed surface creation.
type SurfaceError struct {
	Reason SurfaceReason
	Err    error
}

func (e *SurfaceError) Error() string {
	return fmt.Sprintf("window: create surface: %s: %v", e.Reason, e.Err)
}

func (e *SurfaceError) Unwrap() error { return e.Err }
