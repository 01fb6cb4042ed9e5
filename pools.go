package vkplayer

import (
	vk "github.com/vulkan-go/vulkan"
)

type commandPool struct {
	pool   vk.CommandPool
	buffer vk.CommandBuffer
}

// newCommandPool creates a resettable pool on family and allocates the one
// primary command buffer the frame loop records into.
func newCommandPool(device vk.Device, family uint32, r *releaser) (*commandPool, error) {
	var c commandPool

	ret := vk.CreateCommandPool(device, &vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: family,
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
	}, nil, &c.pool)
	if err := NewError("vkCreateCommandPool", ret); err != nil {
		return nil, err
	}
	pool := c.pool
	r.push("command pool", func() { vk.DestroyCommandPool(device, pool, nil) })

	buffers := make([]vk.CommandBuffer, 1)
	ret = vk.AllocateCommandBuffers(device, &vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        c.pool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: 1,
	}, buffers)
	if err := NewError("vkAllocateCommandBuffers", ret); err != nil {
		return nil, err
	}
	c.buffer = buffers[0]
	r.push("command buffer", func() { vk.FreeCommandBuffers(device, pool, 1, buffers) })
	return &c, nil
}
