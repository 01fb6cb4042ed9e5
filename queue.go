package vkplayer

import (
	vk "github.com/vulkan-go/vulkan"
)

// QueueFamilies lists the queue family properties of gpu.
func QueueFamilies(gpu vk.PhysicalDevice) []vk.QueueFamilyProperties {
	var count uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(gpu, &count, nil)
	props := make([]vk.QueueFamilyProperties, count)
	vk.GetPhysicalDeviceQueueFamilyProperties(gpu, &count, props)
	for i := range props {
		props[i].Deref()
	}
	return props
}

//Finds the first family that can both draw and present. There is no fallback to
//separate graphics and present queues.
func SelectQueueFamily(props []vk.QueueFamilyProperties, presents func(index uint32) bool) (uint32, error) {
	for index := range props {
		graphics := props[index].QueueFlags&vk.QueueFlags(vk.QueueGraphicsBit) != 0
		if graphics && presents(uint32(index)) {
			return uint32(index), nil
		}
	}
	return 0, ErrNoSuitableQueueFamily
}

// surfaceSupport reports whether family index of gpu can present to surface.
func surfaceSupport(gpu vk.PhysicalDevice, surface vk.Surface) func(uint32) bool {
	return func(index uint32) bool {
		var supported vk.Bool32
		ret := vk.GetPhysicalDeviceSurfaceSupport(gpu, index, surface, &supported)
		return ret == vk.Success && supported.B()
	}
}

//Gets the device create info for one queue of the chosen family.
func queueCreateInfos(family uint32) []vk.DeviceQueueCreateInfo {
	return []vk.DeviceQueueCreateInfo{{
		SType:            vk.StructureTypeDeviceQueueCreateInfo,
		QueueFamilyIndex: family,
		QueueCount:       1,
		PQueuePriorities: []float32{1.0},
	}}
}
