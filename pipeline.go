package vkplayer

import (
	"log/slog"
	"unsafe"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// PipelineCompileRequired is VK_PIPELINE_COMPILE_REQUIRED, which the bindings predate.
const PipelineCompileRequired vk.Result = 1000297000

// PushConstant is the per-draw value the fragment stage reads to pick its
// uniform color.
type PushConstant struct {
	ViewportIndex uint32
}

const pushConstantSize = uint32(unsafe.Sizeof(PushConstant{}))

// PipelineOutcome classifies the result of graphics pipeline creation.
type PipelineOutcome int

const (
	PipelineCreated PipelineOutcome = iota
	PipelineNeedsCompile
	PipelineFailed
)

func classifyPipelineResult(ret vk.Result) PipelineOutcome {
	switch ret {
	case vk.Success:
		return PipelineCreated
	case PipelineCompileRequired:
		return PipelineNeedsCompile
	}
	return PipelineFailed
}

type graphicsPipeline struct {
	setLayout vk.DescriptorSetLayout
	layout    vk.PipelineLayout
	handle    vk.Pipeline
}

// pipelineBuilder holds the fixed function state of the viewport pipeline.
type pipelineBuilder struct {
	stages               []vk.PipelineShaderStageCreateInfo
	vertexInput          vk.PipelineVertexInputStateCreateInfo
	inputAssembly        vk.PipelineInputAssemblyStateCreateInfo
	rasterizer           vk.PipelineRasterizationStateCreateInfo
	multisampling        vk.PipelineMultisampleStateCreateInfo
	colorBlendAttachment vk.PipelineColorBlendAttachmentState
	dynamicStates        []vk.DynamicState
}

//No vertex input: the vertex shader derives positions from the vertex index.
func newPipelineBuilder(shaders *shaderPair) *pipelineBuilder {
	return &pipelineBuilder{
		stages: shaders.stages(),
		vertexInput: vk.PipelineVertexInputStateCreateInfo{
			SType: vk.StructureTypePipelineVertexInputStateCreateInfo,
		},
		inputAssembly: vk.PipelineInputAssemblyStateCreateInfo{
			SType:                  vk.StructureTypePipelineInputAssemblyStateCreateInfo,
			Topology:               vk.PrimitiveTopologyTriangleList,
			PrimitiveRestartEnable: vk.False,
		},
		rasterizer: vk.PipelineRasterizationStateCreateInfo{
			SType:                   vk.StructureTypePipelineRasterizationStateCreateInfo,
			DepthClampEnable:        vk.False,
			RasterizerDiscardEnable: vk.False,
			PolygonMode:             vk.PolygonModeFill,
			CullMode:                vk.CullModeFlags(vk.CullModeBackBit),
			FrontFace:               vk.FrontFaceClockwise,
			DepthBiasEnable:         vk.False,
			LineWidth:               1.0,
		},
		multisampling: vk.PipelineMultisampleStateCreateInfo{
			SType:                vk.StructureTypePipelineMultisampleStateCreateInfo,
			RasterizationSamples: vk.SampleCount1Bit,
			SampleShadingEnable:  vk.False,
			MinSampleShading:     1.0,
		},
		colorBlendAttachment: vk.PipelineColorBlendAttachmentState{
			BlendEnable: vk.False,
			ColorWriteMask: vk.ColorComponentFlags(vk.ColorComponentRBit | vk.ColorComponentGBit |
				vk.ColorComponentBBit | vk.ColorComponentABit),
		},
		dynamicStates: []vk.DynamicState{vk.DynamicStateViewport, vk.DynamicStateScissor},
	}
}

func newGraphicsPipeline(device vk.Device, pass vk.RenderPass, shaders *shaderPair, log *slog.Logger, r *releaser) (*graphicsPipeline, error) {
	var gp graphicsPipeline

	ret := vk.CreateDescriptorSetLayout(device, &vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: 1,
		PBindings: []vk.DescriptorSetLayoutBinding{{
			Binding:         0,
			DescriptorType:  vk.DescriptorTypeUniformBuffer,
			DescriptorCount: 1,
			StageFlags:      vk.ShaderStageFlags(vk.ShaderStageFragmentBit),
		}},
	}, nil, &gp.setLayout)
	if err := NewError("vkCreateDescriptorSetLayout", ret); err != nil {
		return nil, err
	}
	setLayout := gp.setLayout
	r.push("descriptor set layout", func() { vk.DestroyDescriptorSetLayout(device, setLayout, nil) })

	ret = vk.CreatePipelineLayout(device, &vk.PipelineLayoutCreateInfo{
		SType:                  vk.StructureTypePipelineLayoutCreateInfo,
		SetLayoutCount:         1,
		PSetLayouts:            []vk.DescriptorSetLayout{gp.setLayout},
		PushConstantRangeCount: 1,
		PPushConstantRanges: []vk.PushConstantRange{{
			StageFlags: vk.ShaderStageFlags(vk.ShaderStageFragmentBit),
			Offset:     0,
			Size:       pushConstantSize,
		}},
	}, nil, &gp.layout)
	if err := NewError("vkCreatePipelineLayout", ret); err != nil {
		return nil, err
	}
	layout := gp.layout
	r.push("pipeline layout", func() { vk.DestroyPipelineLayout(device, layout, nil) })

	pb := newPipelineBuilder(shaders)
	pipelines := []vk.Pipeline{vk.NullPipeline}
	ret = vk.CreateGraphicsPipelines(device, vk.PipelineCache(vk.NullHandle), 1, []vk.GraphicsPipelineCreateInfo{pb.info(gp.layout, pass)}, nil, pipelines)
	switch classifyPipelineResult(ret) {
	case PipelineCreated:
	case PipelineNeedsCompile:
		// creation deferred by the driver; the handle may still be null
		log.Warn("vulkan: graphics pipeline reported compile required")
	default:
		return nil, errors.Wrapf(ErrUnexpectedResult, "vkCreateGraphicsPipelines: %v (%d)", vk.Error(ret), ret)
	}
	gp.handle = pipelines[0]
	if gp.handle != vk.NullPipeline {
		handle := gp.handle
		r.push("graphics pipeline", func() { vk.DestroyPipeline(device, handle, nil) })
	}
	return &gp, nil
}

func (pb *pipelineBuilder) info(layout vk.PipelineLayout, pass vk.RenderPass) vk.GraphicsPipelineCreateInfo {
	return vk.GraphicsPipelineCreateInfo{
		SType:               vk.StructureTypeGraphicsPipelineCreateInfo,
		StageCount:          uint32(len(pb.stages)),
		PStages:             pb.stages,
		PVertexInputState:   &pb.vertexInput,
		PInputAssemblyState: &pb.inputAssembly,
		// counts only: both are dynamic
		PViewportState: &vk.PipelineViewportStateCreateInfo{
			SType:         vk.StructureTypePipelineViewportStateCreateInfo,
			ViewportCount: 1,
			ScissorCount:  1,
		},
		PRasterizationState: &pb.rasterizer,
		PMultisampleState:   &pb.multisampling,
		PColorBlendState: &vk.PipelineColorBlendStateCreateInfo{
			SType:           vk.StructureTypePipelineColorBlendStateCreateInfo,
			LogicOpEnable:   vk.False,
			LogicOp:         vk.LogicOpCopy,
			AttachmentCount: 1,
			PAttachments:    []vk.PipelineColorBlendAttachmentState{pb.colorBlendAttachment},
		},
		PDynamicState: &vk.PipelineDynamicStateCreateInfo{
			SType:             vk.StructureTypePipelineDynamicStateCreateInfo,
			DynamicStateCount: uint32(len(pb.dynamicStates)),
			PDynamicStates:    pb.dynamicStates,
		},
		Layout:            layout,
		RenderPass:        pass,
		Subpass:           0,
		BasePipelineIndex: -1,
	}
}
