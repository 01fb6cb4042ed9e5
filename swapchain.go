package vkplayer

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

const (
	SwapchainFormat     = vk.FormatB8g8r8a8Unorm
	SwapchainColorSpace = vk.ColorSpaceSrgbNonlinear
)

// Swapchain holds the presentable images and, at the same indices, their
// views and framebuffers.
type Swapchain struct {
	Handle       vk.Swapchain
	Format       vk.SurfaceFormat
	Extent       vk.Extent2D
	Images       []vk.Image
	Views        []vk.ImageView
	Framebuffers []vk.Framebuffer
}

// ChooseImageCount asks for one image beyond the minimum, capped by max
// when the surface reports one.
func ChooseImageCount(min, max uint32) uint32 {
	count := min + 1
	if max > 0 && count > max {
		count = max
	}
	return count
}

// ResolveExtent uses the surface's current extent unless it is the
// undefined sentinel, in which case the requested size is clamped into the
// supported range.
func ResolveExtent(current, minExtent, maxExtent vk.Extent2D, width, height uint32) vk.Extent2D {
	if current.Width != vk.MaxUint32 {
		return current
	}
	return vk.Extent2D{
		Width:  clamp(width, minExtent.Width, maxExtent.Width),
		Height: clamp(height, minExtent.Height, maxExtent.Height),
	}
}

func surfaceCapabilities(gpu vk.PhysicalDevice, surface vk.Surface) (vk.SurfaceCapabilities, error) {
	var caps vk.SurfaceCapabilities
	ret := vk.GetPhysicalDeviceSurfaceCapabilities(gpu, surface, &caps)
	if err := NewError("vkGetPhysicalDeviceSurfaceCapabilitiesKHR", ret); err != nil {
		return caps, err
	}
	caps.Deref()
	caps.CurrentExtent.Deref()
	caps.MinImageExtent.Deref()
	caps.MaxImageExtent.Deref()
	return caps, nil
}

// swapchainCreateInfo describes the swapchain for caps. width and height are
// the requested size, used only when the surface leaves its extent undefined.
func swapchainCreateInfo(caps vk.SurfaceCapabilities, surface vk.Surface, width, height uint32) vk.SwapchainCreateInfo {
	return vk.SwapchainCreateInfo{
		SType:            vk.StructureTypeSwapchainCreateInfo,
		Surface:          surface,
		MinImageCount:    ChooseImageCount(caps.MinImageCount, caps.MaxImageCount),
		ImageFormat:      SwapchainFormat,
		ImageColorSpace:  SwapchainColorSpace,
		ImageExtent:      ResolveExtent(caps.CurrentExtent, caps.MinImageExtent, caps.MaxImageExtent, width, height),
		ImageArrayLayers: 1,
		ImageUsage:       vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		ImageSharingMode: vk.SharingModeExclusive,
		PreTransform:     caps.CurrentTransform,
		CompositeAlpha:   vk.CompositeAlphaOpaqueBit,
		PresentMode:      vk.PresentModeFifo,
		Clipped:          vk.True,
	}
}

//Creates the swapchain and one color view per image. Framebuffers are created
//later, once the render pass exists.
func newSwapchain(ctx *deviceContext, width, height uint32, r *releaser) (*Swapchain, error) {
	caps, err := surfaceCapabilities(ctx.gpu, ctx.display.surface)
	if err != nil {
		return nil, err
	}

	createInfo := swapchainCreateInfo(caps, ctx.display.surface, width, height)
	sc := &Swapchain{
		Format: vk.SurfaceFormat{Format: createInfo.ImageFormat, ColorSpace: createInfo.ImageColorSpace},
		Extent: createInfo.ImageExtent,
	}
	ctx.display.format = sc.Format

	ret := vk.CreateSwapchain(ctx.device, &createInfo, nil, &sc.Handle)
	if err := NewError("vkCreateSwapchainKHR", ret); err != nil {
		return nil, err
	}
	handle := sc.Handle
	r.push("swapchain", func() { vk.DestroySwapchain(ctx.device, handle, nil) })

	var imageCount uint32
	ret = vk.GetSwapchainImages(ctx.device, sc.Handle, &imageCount, nil)
	if err := NewError("vkGetSwapchainImagesKHR", ret); err != nil {
		return nil, err
	}
	sc.Images = make([]vk.Image, imageCount)
	ret = vk.GetSwapchainImages(ctx.device, sc.Handle, &imageCount, sc.Images)
	if err := NewError("vkGetSwapchainImagesKHR", ret); err != nil {
		return nil, err
	}

	sc.Views = make([]vk.ImageView, 0, imageCount)
	for index, image := range sc.Images {
		view, err := createImageView(ctx.device, image, sc.Format.Format)
		if err != nil {
			return nil, errors.Wrapf(err, "swapchain image view %d", index)
		}
		sc.Views = append(sc.Views, view)
		r.push("image view", func() { vk.DestroyImageView(ctx.device, view, nil) })
	}
	return sc, nil
}

func createImageView(device vk.Device, image vk.Image, format vk.Format) (vk.ImageView, error) {
	var view vk.ImageView
	ret := vk.CreateImageView(device, &vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    image,
		ViewType: vk.ImageViewType2d,
		Format:   format,
		Components: vk.ComponentMapping{
			R: vk.ComponentSwizzleIdentity,
			G: vk.ComponentSwizzleIdentity,
			B: vk.ComponentSwizzleIdentity,
			A: vk.ComponentSwizzleIdentity,
		},
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
			LevelCount: 1,
			LayerCount: 1,
		},
	}, nil, &view)
	return view, NewError("vkCreateImageView", ret)
}

// createFramebuffers makes one framebuffer per view, in view order.
func (sc *Swapchain) createFramebuffers(device vk.Device, pass vk.RenderPass, r *releaser) error {
	sc.Framebuffers = make([]vk.Framebuffer, 0, len(sc.Views))
	for index, view := range sc.Views {
		var fb vk.Framebuffer
		ret := vk.CreateFramebuffer(device, &vk.FramebufferCreateInfo{
			SType:           vk.StructureTypeFramebufferCreateInfo,
			RenderPass:      pass,
			AttachmentCount: 1,
			PAttachments:    []vk.ImageView{view},
			Width:           sc.Extent.Width,
			Height:          sc.Extent.Height,
			Layers:          1,
		}, nil, &fb)
		if err := NewError("vkCreateFramebuffer", ret); err != nil {
			return errors.Wrapf(err, "framebuffer %d", index)
		}
		sc.Framebuffers = append(sc.Framebuffers, fb)
		r.push("framebuffer", func() { vk.DestroyFramebuffer(device, fb, nil) })
	}
	return nil
}
