package vkplayer

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

func family(flags vk.QueueFlagBits) vk.QueueFamilyProperties {
	return vk.QueueFamilyProperties{QueueFlags: vk.QueueFlags(flags), QueueCount: 1}
}

func presentsOn(indices ...uint32) func(uint32) bool {
	return func(index uint32) bool {
		for _, i := range indices {
			if i == index {
				return true
			}
		}
		return false
	}
}

func TestSelectQueueFamily(t *testing.T) {
	props := []vk.QueueFamilyProperties{
		family(vk.QueueTransferBit),
		family(vk.QueueGraphicsBit),
		family(vk.QueueGraphicsBit | vk.QueueComputeBit),
	}

	index, err := SelectQueueFamily(props, presentsOn(0, 1, 2))
	require.NoError(t, err)
	assert.Equal(t, uint32(1), index)

	index, err = SelectQueueFamily(props, presentsOn(0, 2))
	require.NoError(t, err)
	assert.Equal(t, uint32(2), index, "graphics without present is skipped")
}

func TestSelectQueueFamilyNone(t *testing.T) {
	props := []vk.QueueFamilyProperties{
		family(vk.QueueGraphicsBit),
		family(vk.QueueTransferBit),
	}
	_, err := SelectQueueFamily(props, presentsOn(1))
	assert.True(t, errors.Is(err, ErrNoSuitableQueueFamily), "split graphics and present is not supported")

	_, err = SelectQueueFamily(nil, presentsOn(0))
	assert.True(t, errors.Is(err, ErrNoSuitableQueueFamily))
}

func TestQueueCreateInfos(t *testing.T) {
	infos := queueCreateInfos(3)
	require.Len(t, infos, 1)
	assert.Equal(t, uint32(3), infos[0].QueueFamilyIndex)
	assert.Equal(t, uint32(1), infos[0].QueueCount)
	assert.Equal(t, []float32{1.0}, infos[0].PQueuePriorities)
}
