package vkplayer

import (
	"unsafe"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// FindMemoryType returns the first memory type allowed by typeBits whose
// properties include every bit of flags.
func FindMemoryType(props vk.PhysicalDeviceMemoryProperties, typeBits uint32, flags vk.MemoryPropertyFlags) (uint32, error) {
	for i := uint32(0); i < props.MemoryTypeCount && i < vk.MaxMemoryTypes; i++ {
		if typeBits&(1<<i) == 0 {
			continue
		}
		memType := props.MemoryTypes[i]
		memType.Deref()
		if memType.PropertyFlags&flags == flags {
			return i, nil
		}
	}
	return 0, errors.Wrapf(ErrNoSuitableMemoryType, "type bits %#x, flags %#x", typeBits, uint32(flags))
}

// MemoryProperties gets the Deref'd memory properties of gpu.
func MemoryProperties(gpu vk.PhysicalDevice) vk.PhysicalDeviceMemoryProperties {
	var props vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(gpu, &props)
	props.Deref()
	return props
}

type Buffer struct {
	// device for destroy purposes.
	device vk.Device
	// Buffer is the buffer object.
	Buffer vk.Buffer
	// Memory is the device memory backing buffer object.
	Memory vk.DeviceMemory
	Size   vk.DeviceSize
}

func (b *Buffer) Destroy() {
	if b.device == nil {
		return
	}
	vk.FreeMemory(b.device, b.Memory, nil)
	vk.DestroyBuffer(b.device, b.Buffer, nil)
	b.device = nil
}

// CreateBuffer creates a buffer of size bytes, allocates memory matching its
// reported requirements and flags, and binds it at offset 0. pNext is chained
// into the buffer create info.
func CreateBuffer(device vk.Device, memProps vk.PhysicalDeviceMemoryProperties, size vk.DeviceSize,
	usage vk.BufferUsageFlags, flags vk.MemoryPropertyFlags, pNext unsafe.Pointer) (*Buffer, error) {

	var buffer vk.Buffer
	ret := vk.CreateBuffer(device, &vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		PNext:       pNext,
		Usage:       usage,
		Size:        size,
		SharingMode: vk.SharingModeExclusive,
	}, nil, &buffer)
	if err := NewError("vkCreateBuffer", ret); err != nil {
		return nil, err
	}

	// Ask device about its memory requirements.
	var memReqs vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(device, buffer, &memReqs)
	memReqs.Deref()

	memType, err := FindMemoryType(memProps, memReqs.MemoryTypeBits, flags)
	if err != nil {
		vk.DestroyBuffer(device, buffer, nil)
		return nil, err
	}

	var memory vk.DeviceMemory
	ret = vk.AllocateMemory(device, &vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  memReqs.Size,
		MemoryTypeIndex: memType,
	}, nil, &memory)
	if err := NewError("vkAllocateMemory", ret); err != nil {
		vk.DestroyBuffer(device, buffer, nil)
		return nil, err
	}

	if err := NewError("vkBindBufferMemory", vk.BindBufferMemory(device, buffer, memory, 0)); err != nil {
		vk.FreeMemory(device, memory, nil)
		vk.DestroyBuffer(device, buffer, nil)
		return nil, err
	}

	return &Buffer{device: device, Buffer: buffer, Memory: memory, Size: size}, nil
}

// Upload maps the buffer, copies data to its start and unmaps it.
func (b *Buffer) Upload(data []byte) error {
	if vk.DeviceSize(len(data)) > b.Size {
		return errors.Errorf("vulkan: upload of %d bytes into %d byte buffer", len(data), b.Size)
	}
	var pData unsafe.Pointer
	ret := vk.MapMemory(b.device, b.Memory, 0, vk.DeviceSize(len(data)), 0, &pData)
	if err := NewError("vkMapMemory", ret); err != nil {
		return err
	}
	n := vk.Memcopy(pData, data)
	vk.UnmapMemory(b.device, b.Memory)
	if n != len(data) {
		return errors.Errorf("vulkan: copied %d of %d bytes", n, len(data))
	}
	return nil
}

// bufferAllocator hands host buffers to collaborators that only know handles.
type bufferAllocator struct {
	device   vk.Device
	memProps vk.PhysicalDeviceMemoryProperties
}

func (a bufferAllocator) CreateBuffer(size vk.DeviceSize, usage vk.BufferUsageFlags, flags vk.MemoryPropertyFlags, pNext unsafe.Pointer) (vk.Buffer, vk.DeviceMemory, error) {
	b, err := CreateBuffer(a.device, a.memProps, size, usage, flags, pNext)
	if err != nil {
		return vk.NullBuffer, vk.NullDeviceMemory, err
	}
	return b.Buffer, b.Memory, nil
}

func (a bufferAllocator) DestroyBuffer(buffer vk.Buffer, memory vk.DeviceMemory) {
	vk.FreeMemory(a.device, memory, nil)
	vk.DestroyBuffer(a.device, buffer, nil)
}

// uniformBinding is the viewport color buffer and the descriptor set exposing
// it at binding 0.
type uniformBinding struct {
	buffer *Buffer
	pool   vk.DescriptorPool
	set    vk.DescriptorSet
}

func newUniformBinding(device vk.Device, memProps vk.PhysicalDeviceMemoryProperties, layout vk.DescriptorSetLayout, r *releaser) (*uniformBinding, error) {
	u := &uniformBinding{}

	buf, err := CreateBuffer(device, memProps, vk.DeviceSize(UniformSize),
		vk.BufferUsageFlags(vk.BufferUsageUniformBufferBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit), nil)
	if err != nil {
		return nil, errors.Wrap(err, "uniform buffer")
	}
	u.buffer = buf
	r.push("uniform buffer", buf.Destroy)

	ret := vk.CreateDescriptorPool(device, &vk.DescriptorPoolCreateInfo{
		SType:         vk.StructureTypeDescriptorPoolCreateInfo,
		MaxSets:       1,
		PoolSizeCount: 1,
		PPoolSizes: []vk.DescriptorPoolSize{{
			Type:            vk.DescriptorTypeUniformBuffer,
			DescriptorCount: 1,
		}},
	}, nil, &u.pool)
	if err := NewError("vkCreateDescriptorPool", ret); err != nil {
		return nil, err
	}
	pool := u.pool
	r.push("descriptor pool", func() { vk.DestroyDescriptorPool(device, pool, nil) })

	ret = vk.AllocateDescriptorSets(device, &vk.DescriptorSetAllocateInfo{
		SType:              vk.StructureTypeDescriptorSetAllocateInfo,
		DescriptorPool:     u.pool,
		DescriptorSetCount: 1,
		PSetLayouts:        []vk.DescriptorSetLayout{layout},
	}, &u.set)
	if err := NewError("vkAllocateDescriptorSets", ret); err != nil {
		return nil, err
	}
	return u, nil
}

// write uploads data and points the descriptor set at the buffer.
func (u *uniformBinding) write(device vk.Device, data *UniformData) error {
	if err := u.buffer.Upload(data.Bytes()); err != nil {
		return errors.Wrap(err, "uniform upload")
	}
	vk.UpdateDescriptorSets(device, 1, []vk.WriteDescriptorSet{{
		SType:           vk.StructureTypeWriteDescriptorSet,
		DstSet:          u.set,
		DstBinding:      0,
		DescriptorCount: 1,
		DescriptorType:  vk.DescriptorTypeUniformBuffer,
		PBufferInfo: []vk.DescriptorBufferInfo{{
			Buffer: u.buffer.Buffer,
			Offset: 0,
			Range:  vk.DeviceSize(UniformSize),
		}},
	}}, 0, nil)
	return nil
}
