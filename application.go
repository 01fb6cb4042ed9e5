package vkplayer

import (
	"log/slog"
	"sort"
	"unsafe"

	"github.com/andewx/vkplayer/video"
)

const (
	ExtSwapchain            = "VK_KHR_swapchain"
	ExtPortabilityEnumerate = "VK_KHR_portability_enumeration"
	ExtDebugUtils           = "VK_EXT_debug_utils"
	ExtDebugReport          = "VK_EXT_debug_report"
	LayerKhronosValidation  = "VK_LAYER_KHRONOS_validation"
)

const (
	DefaultAppName = "daia"
	DefaultWidth   = 1024
	DefaultHeight  = 512
)

// SetupInfo is everything the pipeline needs to bring itself up.
// Normalize must run before Setup consumes it; Setup calls it itself.
type SetupInfo struct {
	AppRoot string
	AppName string

	Width, Height uint32

	InstanceExtensions []string
	DeviceExtensions   []string
	Layers             []string
	EnableValidation   bool

	Window    Window
	Viewports []ViewportSource
	Video     video.Config

	// ProcAddr is the loader's vkGetInstanceProcAddr, used to reach
	// entry points the bindings do not expose.
	ProcAddr unsafe.Pointer
	Logger   *slog.Logger
}

// Normalize adds the names the pipeline always needs and reduces every list
// to a sorted set. Calling it twice yields the same lists. A zero Video
// section stages the default decode session.
func (info *SetupInfo) Normalize() {
	if info.AppName == "" {
		info.AppName = DefaultAppName
	}
	if info.Width == 0 {
		info.Width = DefaultWidth
	}
	if info.Height == 0 {
		info.Height = DefaultHeight
	}
	if info.Logger == nil {
		info.Logger = slog.Default()
	}
	// the lists may share backing arrays with the caller's
	info.InstanceExtensions = append([]string(nil), info.InstanceExtensions...)
	info.DeviceExtensions = append([]string(nil), info.DeviceExtensions...)
	info.Layers = append([]string(nil), info.Layers...)
	if info.Window != nil {
		info.InstanceExtensions = append(info.InstanceExtensions, info.Window.RequiredInstanceExtensions()...)
	}
	info.InstanceExtensions = append(info.InstanceExtensions, ExtPortabilityEnumerate)
	if info.EnableValidation {
		info.Layers = append(info.Layers, LayerKhronosValidation)
		info.InstanceExtensions = append(info.InstanceExtensions, ExtDebugUtils, ExtDebugReport)
	}
	info.Video.Normalize()
	info.DeviceExtensions = append(info.DeviceExtensions, ExtSwapchain)
	info.DeviceExtensions = append(info.DeviceExtensions, info.Video.DeviceExtensions()...)

	info.InstanceExtensions = Distinct(info.InstanceExtensions)
	info.DeviceExtensions = Distinct(info.DeviceExtensions)
	info.Layers = Distinct(info.Layers)
}

// Distinct returns names sorted without duplicates. The argument is not modified.
func Distinct(names []string) []string {
	if len(names) == 0 {
		return names
	}
	names = append([]string(nil), names...)
	sort.Strings(names)
	out := names[:1]
	for _, name := range names[1:] {
		if name != out[len(out)-1] {
			out = append(out, name)
		}
	}
	return out
}
