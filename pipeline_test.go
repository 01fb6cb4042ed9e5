package vkplayer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	vk "github.com/vulkan-go/vulkan"
)

func TestClassifyPipelineResult(t *testing.T) {
	assert.Equal(t, PipelineCreated, classifyPipelineResult(vk.Success))
	assert.Equal(t, PipelineNeedsCompile, classifyPipelineResult(PipelineCompileRequired))
	assert.Equal(t, PipelineFailed, classifyPipelineResult(vk.ErrorOutOfDeviceMemory))
	assert.Equal(t, PipelineFailed, classifyPipelineResult(vk.Incomplete))
}

func TestPushConstantSize(t *testing.T) {
	assert.Equal(t, uint32(4), pushConstantSize)
}
