package vkplayer

import (
	"github.com/go-gl/mathgl/mgl32"
	vk "github.com/vulkan-go/vulkan"
)

// RGBA is a flat fill color.
func RGBA(r, g, b, a float32) mgl32.Vec4 {
	return mgl32.Vec4{r, g, b, a}
}

// scaleRect maps a normalized rectangle onto extent. The scissor truncates
// toward zero.
func scaleRect(extent vk.Extent2D, x, y, w, h float32) (vk.Viewport, vk.Rect2D) {
	fw, fh := float32(extent.Width), float32(extent.Height)
	vp := vk.Viewport{
		X:        fw * x,
		Y:        fh * y,
		Width:    fw * w,
		Height:   fh * h,
		MinDepth: 0.0,
		MaxDepth: 1.0,
	}
	scissor := vk.Rect2D{
		Offset: vk.Offset2D{X: int32(vp.X), Y: int32(vp.Y)},
		Extent: vk.Extent2D{Width: uint32(vp.Width), Height: uint32(vp.Height)},
	}
	return vp, scissor
}
