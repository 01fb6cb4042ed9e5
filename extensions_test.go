package vkplayer

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestMissingNames(t *testing.T) {
	available := []string{"VK_KHR_surface", "VK_KHR_swapchain"}

	assert.Empty(t, MissingNames([]string{"VK_KHR_swapchain"}, available))
	assert.Empty(t, MissingNames(nil, available))
	assert.Equal(t, []string{"VK_KHR_video_queue", "VK_khr_surface"},
		MissingNames([]string{"VK_KHR_video_queue", "VK_KHR_surface", "VK_khr_surface"}, available))
	assert.Equal(t, []string{"a"}, MissingNames([]string{"a"}, nil))
}

func TestMissingError(t *testing.T) {
	assert.NoError(t, missing(ErrMissingLayers, nil))

	err := missing(ErrMissingLayers, []string{LayerKhronosValidation})
	assert.True(t, errors.Is(err, ErrMissingLayers))
	assert.False(t, errors.Is(err, ErrMissingExtensions))
	assert.Contains(t, err.Error(), LayerKhronosValidation)

	var merr *MissingError
	if assert.True(t, errors.As(err, &merr)) {
		assert.Equal(t, []string{LayerKhronosValidation}, merr.Names)
	}
}
