package video

import (
	"testing"
	"unsafe"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	vk "github.com/vulkan-go/vulkan"
)

type fakeAllocator struct {
	created, destroyed int
}

func (a *fakeAllocator) CreateBuffer(vk.DeviceSize, vk.BufferUsageFlags, vk.MemoryPropertyFlags, unsafe.Pointer) (vk.Buffer, vk.DeviceMemory, error) {
	a.created++
	return vk.NullBuffer, vk.NullDeviceMemory, nil
}

func (a *fakeAllocator) DestroyBuffer(vk.Buffer, vk.DeviceMemory) {
	a.destroyed++
}

func TestBindWithoutLoader(t *testing.T) {
	alloc := &fakeAllocator{}
	b, err := Bind(BindInfo{Config: DefaultConfig(), Allocator: alloc})
	assert.Nil(t, b)
	assert.True(t, errors.Is(err, ErrUnavailable))
	assert.Zero(t, alloc.created, "nothing allocated before the entry points resolve")
}

func TestBindRejectsConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BufferSize = 0
	_, err := Bind(BindInfo{Config: cfg, Allocator: &fakeAllocator{}})
	assert.Error(t, err)

	_, err = Bind(BindInfo{Config: DefaultConfig()})
	assert.Error(t, err, "allocator is required")
}

func TestDestroyIdempotent(t *testing.T) {
	var nilBinding *Binding
	nilBinding.Destroy()

	b := &Binding{}
	b.Destroy()
	b.Destroy()
}

func TestFlagMapping(t *testing.T) {
	assert.NotEqual(t, codecFlag(CodecH264), codecFlag(CodecH265))
	assert.NotEqual(t, chromaFlags(Chroma420), chromaFlags(Chroma444))
	assert.Equal(t, depthFlags(8), depthFlags(9), "unknown depths fall back to 8 bit")
	assert.NotEqual(t, depthFlags(8), depthFlags(10))
}
