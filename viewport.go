package vkplayer

import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// MaxViewports is the number of color slots in the fragment uniform block.
const MaxViewports = 8

// UniformSize is the byte size of UniformData.
const UniformSize = MaxViewports * int(unsafe.Sizeof(mgl32.Vec4{}))

// ViewportSource is a normalized screen rectangle and its fill color.
type ViewportSource struct {
	X, Y          float32
	Width, Height float32
	Color         mgl32.Vec4
}

// Viewport is a source resolved against a concrete swapchain extent.
type Viewport struct {
	Viewport vk.Viewport
	Scissor  vk.Rect2D
}

// UniformData is the fragment uniform block: one color per viewport index.
type UniformData [MaxViewports]mgl32.Vec4

// Bytes views the block as the 128 bytes uploaded to the uniform buffer.
func (u *UniformData) Bytes() []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(u)), UniformSize)
}

// DefaultViewports splits the surface into a left and right half.
func DefaultViewports() []ViewportSource {
	return []ViewportSource{
		{X: 0, Y: 0, Width: 0.5, Height: 1, Color: RGBA(0.4, 0.6, 0.2, 1)},
		{X: 0.5, Y: 0, Width: 0.5, Height: 1, Color: RGBA(0.2, 0.6, 0.8, 1)},
	}
}

// ViewportRegistry is an ordered, bounded list of viewport sources. The index
// of a source is the value pushed to the fragment stage when drawing it.
type ViewportRegistry struct {
	sources []ViewportSource
}

// Add appends src and returns its index.
func (r *ViewportRegistry) Add(src ViewportSource) (int, error) {
	if len(r.sources) >= MaxViewports {
		return 0, errors.Wrapf(ErrViewportCapacity, "%d viewports registered", len(r.sources))
	}
	r.sources = append(r.sources, src)
	return len(r.sources) - 1, nil
}

func (r *ViewportRegistry) Len() int {
	return len(r.sources)
}

// Source returns the registered source at index i.
func (r *ViewportRegistry) Source(i int) ViewportSource {
	return r.sources[i]
}

// Get resolves source i against extent.
func (r *ViewportRegistry) Get(i int, extent vk.Extent2D) Viewport {
	src := r.sources[i]
	vp, scissor := scaleRect(extent, src.X, src.Y, src.Width, src.Height)
	return Viewport{Viewport: vp, Scissor: scissor}
}

// UniformData packs colors in registration order. Unused slots are zero.
func (r *ViewportRegistry) UniformData() UniformData {
	var data UniformData
	for i, src := range r.sources {
		data[i] = src.Color
	}
	return data
}
