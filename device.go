package vkplayer

import (
	vk "github.com/vulkan-go/vulkan"
)

// deviceContext is the negotiated instance, surface, physical device and the
// logical device with its single graphics+present queue.
type deviceContext struct {
	instance vk.Instance
	display  *display
	gpu      vk.PhysicalDevice
	gpuProps vk.PhysicalDeviceProperties
	memProps vk.PhysicalDeviceMemoryProperties
	family   uint32
	device   vk.Device
	queue    vk.Queue
}

func (ctx *deviceContext) deviceName() string {
	return vk.ToString(ctx.gpuProps.DeviceName[:])
}

//Creates the logical device with exactly one queue from family and the
//requested extensions, then fetches that queue.
func createLogicalDevice(ctx *deviceContext, extensions, layers []string, r *releaser) error {
	if err := checkDeviceExtensions(ctx.gpu, extensions); err != nil {
		return err
	}

	queueInfos := queueCreateInfos(ctx.family)
	var device vk.Device
	ret := vk.CreateDevice(ctx.gpu, &vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: safeStrings(extensions),
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     safeStrings(layers),
	}, nil, &device)
	if err := NewError("vkCreateDevice", ret); err != nil {
		return err
	}
	ctx.device = device
	r.push("device", func() { vk.DestroyDevice(device, nil) })

	var queue vk.Queue
	vk.GetDeviceQueue(ctx.device, ctx.family, 0, &queue)
	ctx.queue = queue
	return nil
}
