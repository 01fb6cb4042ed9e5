package vkplayer

import (
	vk "github.com/vulkan-go/vulkan"
)

// syncSet is the single frame-in-flight synchronization: one semaphore
// signalled by acquire, one by the render submit, and a fence the host waits
// on before recording again.
type syncSet struct {
	imageAcquired  vk.Semaphore
	renderFinished vk.Semaphore
	fence          vk.Fence
}

//The fence starts signaled so the first frame's reset has a completed fence to reset.
func newSyncSet(device vk.Device, r *releaser) (*syncSet, error) {
	var s syncSet
	semaphoreCreateInfo := &vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
	}
	for _, sem := range []*vk.Semaphore{&s.imageAcquired, &s.renderFinished} {
		if err := NewError("vkCreateSemaphore", vk.CreateSemaphore(device, semaphoreCreateInfo, nil, sem)); err != nil {
			return nil, err
		}
		handle := *sem
		r.push("semaphore", func() { vk.DestroySemaphore(device, handle, nil) })
	}

	ret := vk.CreateFence(device, &vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
		Flags: vk.FenceCreateFlags(vk.FenceCreateSignaledBit),
	}, nil, &s.fence)
	if err := NewError("vkCreateFence", ret); err != nil {
		return nil, err
	}
	fence := s.fence
	r.push("fence", func() { vk.DestroyFence(device, fence, nil) })
	return &s, nil
}
