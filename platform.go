package vkplayer

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// PhysicalDevices lists the devices the instance can see.
func PhysicalDevices(instance vk.Instance) ([]vk.PhysicalDevice, error) {
	var count uint32
	if err := NewError("vkEnumeratePhysicalDevices", vk.EnumeratePhysicalDevices(instance, &count, nil)); err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrNoPhysicalDevice
	}
	gpus := make([]vk.PhysicalDevice, count)
	if err := NewError("vkEnumeratePhysicalDevices", vk.EnumeratePhysicalDevices(instance, &count, gpus)); err != nil {
		return nil, err
	}
	return gpus[:count], nil
}

// pickPhysicalDevice takes the first enumerated device. There is no ranking
// between discrete and integrated adapters.
func pickPhysicalDevice(gpus []vk.PhysicalDevice) (vk.PhysicalDevice, error) {
	if len(gpus) == 0 {
		return nil, ErrNoPhysicalDevice
	}
	return gpus[0], nil
}

// negotiate brings up everything up to and including the logical device.
// Each created object is pushed onto r.
func negotiate(info *SetupInfo, r *releaser) (*deviceContext, error) {
	log := info.Logger
	ctx := &deviceContext{}

	instance, err := createInstance(info, r)
	if err != nil {
		return nil, errors.Wrap(err, "instance")
	}
	ctx.instance = instance

	if info.EnableValidation {
		if err := createDebugCallback(instance, log, r); err != nil {
			return nil, errors.Wrap(err, "debug callback")
		}
	}

	if info.Window == nil {
		return nil, errors.New("vkplayer: no window to present to")
	}
	ctx.display, err = newDisplay(info.Window, instance)
	if err != nil {
		return nil, errors.Wrap(err, "surface")
	}
	r.push("surface", func() { ctx.display.destroy(instance) })

	gpus, err := PhysicalDevices(instance)
	if err != nil {
		return nil, err
	}
	if ctx.gpu, err = pickPhysicalDevice(gpus); err != nil {
		return nil, err
	}
	vk.GetPhysicalDeviceProperties(ctx.gpu, &ctx.gpuProps)
	ctx.gpuProps.Deref()
	ctx.memProps = MemoryProperties(ctx.gpu)
	log.Info("vulkan: physical device", "name", ctx.deviceName(), "candidates", len(gpus))

	ctx.family, err = SelectQueueFamily(QueueFamilies(ctx.gpu), surfaceSupport(ctx.gpu, ctx.display.surface))
	if err != nil {
		return nil, err
	}
	log.Debug("vulkan: queue family", "index", ctx.family)

	if err := createLogicalDevice(ctx, info.DeviceExtensions, info.Layers, r); err != nil {
		return nil, errors.Wrap(err, "device")
	}
	return ctx, nil
}
