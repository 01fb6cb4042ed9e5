package vkplayer

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

//go:generate glslc shader/triangle.vert -o shader/triangle.vert.spv
//go:generate glslc shader/triangle.frag -o shader/triangle.frag.spv

const (
	VertexShaderFile   = "triangle.vert.spv"
	FragmentShaderFile = "triangle.frag.spv"
)

// ShaderPaths gives the compiled vertex and fragment stages under root.
func ShaderPaths(root string) (vert, frag string) {
	dir := filepath.Join(root, "shader")
	return filepath.Join(dir, VertexShaderFile), filepath.Join(dir, FragmentShaderFile)
}

// ReadSPIRV reads a compiled shader and checks its framing.
func ReadSPIRV(path string) ([]byte, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "shader")
	}
	if len(code) == 0 || len(code)%4 != 0 {
		return nil, errors.Errorf("shader %s: %d bytes is not whole SPIR-V words", path, len(code))
	}
	return code, nil
}

func LoadShaderModule(device vk.Device, data []byte) (vk.ShaderModule, error) {
	var module vk.ShaderModule
	ret := vk.CreateShaderModule(device, &vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint(len(data)),
		PCode:    sliceUint32(data),
	}, nil, &module)
	if err := NewError("vkCreateShaderModule", ret); err != nil {
		return vk.NullShaderModule, err
	}
	return module, nil
}

type shaderPair struct {
	vert, frag vk.ShaderModule
}

func loadShaders(device vk.Device, root string, r *releaser) (*shaderPair, error) {
	var pair shaderPair
	vertPath, fragPath := ShaderPaths(root)
	for _, s := range []struct {
		path string
		out  *vk.ShaderModule
	}{{vertPath, &pair.vert}, {fragPath, &pair.frag}} {
		code, err := ReadSPIRV(s.path)
		if err != nil {
			return nil, err
		}
		module, err := LoadShaderModule(device, code)
		if err != nil {
			return nil, errors.Wrap(err, s.path)
		}
		*s.out = module
		r.push("shader module", func() { vk.DestroyShaderModule(device, module, nil) })
	}
	return &pair, nil
}

func (s *shaderPair) stages() []vk.PipelineShaderStageCreateInfo {
	return []vk.PipelineShaderStageCreateInfo{
		{
			SType:  vk.StructureTypePipelineShaderStageCreateInfo,
			Stage:  vk.ShaderStageVertexBit,
			Module: s.vert,
			PName:  safeString("main"),
		},
		{
			SType:  vk.StructureTypePipelineShaderStageCreateInfo,
			Stage:  vk.ShaderStageFragmentBit,
			Module: s.frag,
			PName:  safeString("main"),
		},
	}
}
