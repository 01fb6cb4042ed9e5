package vkplayer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	vk "github.com/vulkan-go/vulkan"
)

func TestChooseImageCount(t *testing.T) {
	assert.Equal(t, uint32(3), ChooseImageCount(2, 0), "no maximum")
	assert.Equal(t, uint32(3), ChooseImageCount(2, 8))
	assert.Equal(t, uint32(2), ChooseImageCount(2, 2), "capped at maximum")
	assert.Equal(t, uint32(1), ChooseImageCount(0, 0))
}

func TestResolveExtent(t *testing.T) {
	minE := vk.Extent2D{Width: 16, Height: 16}
	maxE := vk.Extent2D{Width: 800, Height: 600}

	current := vk.Extent2D{Width: 640, Height: 480}
	assert.Equal(t, current, ResolveExtent(current, minE, maxE, 1024, 512), "defined current extent wins")

	undefined := vk.Extent2D{Width: vk.MaxUint32, Height: vk.MaxUint32}
	assert.Equal(t, vk.Extent2D{Width: 800, Height: 512}, ResolveExtent(undefined, minE, maxE, 1024, 512))
	assert.Equal(t, vk.Extent2D{Width: 16, Height: 16}, ResolveExtent(undefined, minE, maxE, 1, 2))
	assert.Equal(t, vk.Extent2D{Width: 300, Height: 200}, ResolveExtent(undefined, minE, maxE, 300, 200))
}

func TestSwapchainCreateInfoUsesRequestedSize(t *testing.T) {
	caps := vk.SurfaceCapabilities{
		MinImageCount:  2,
		CurrentExtent:  vk.Extent2D{Width: vk.MaxUint32, Height: vk.MaxUint32},
		MinImageExtent: vk.Extent2D{Width: 1, Height: 1},
		MaxImageExtent: vk.Extent2D{Width: 4096, Height: 4096},
	}
	info := swapchainCreateInfo(caps, vk.NullSurface, 1024, 512)
	assert.Equal(t, vk.Extent2D{Width: 1024, Height: 512}, info.ImageExtent)
	assert.Equal(t, uint32(3), info.MinImageCount)
	assert.Equal(t, vk.Format(SwapchainFormat), info.ImageFormat)
	assert.Equal(t, vk.PresentModeFifo, info.PresentMode)

	caps.MaxImageExtent = vk.Extent2D{Width: 800, Height: 400}
	info = swapchainCreateInfo(caps, vk.NullSurface, 1024, 512)
	assert.Equal(t, vk.Extent2D{Width: 800, Height: 400}, info.ImageExtent, "clamped to the surface maximum")

	caps.CurrentExtent = vk.Extent2D{Width: 640, Height: 320}
	info = swapchainCreateInfo(caps, vk.NullSurface, 1024, 512)
	assert.Equal(t, vk.Extent2D{Width: 640, Height: 320}, info.ImageExtent, "a defined surface extent wins")
}
