package vkplayer

import (
	"log/slog"
	"unsafe"

	"github.com/andewx/vkplayer/video"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// Pipeline owns every GPU object of the player, from instance to decode
// session. It is driven from a single goroutine.
type Pipeline struct {
	log *slog.Logger
	rel *releaser

	ctx       *deviceContext
	commands  *commandPool
	swapchain *Swapchain
	sync      *syncSet
	pass      vk.RenderPass
	shaders   *shaderPair
	graphics  *graphicsPipeline
	uniform   *uniformBinding
	video     *video.Binding

	viewports ViewportRegistry
	frames    *frameSync
	ready     bool
}

// NewPipeline sets up a pipeline from info. On error nothing it created
// remains alive.
func NewPipeline(info SetupInfo) (*Pipeline, error) {
	p := &Pipeline{}
	if err := p.Setup(info); err != nil {
		return nil, err
	}
	return p, nil
}

// Setup negotiates the device, builds the render state and stages video
// decode. A failure unwinds what was created so far before returning.
func (p *Pipeline) Setup(info SetupInfo) (err error) {
	if p.ready {
		return errors.New("vkplayer: pipeline already set up")
	}
	info.Normalize()
	p.log = info.Logger
	p.rel = &releaser{log: p.log}
	p.frames = newFrameSync(p.log)

	defer func() {
		if err != nil {
			p.log.Error("vulkan: setup failed, releasing", "objects", p.rel.len(), "err", err)
			p.rel.unwind()
			p.reset()
		}
	}()
	defer checkErr(&err)

	if err = info.Video.Validate(); err != nil {
		return err
	}

	// viewports are plain data; reject a bad set before touching the driver
	sources := info.Viewports
	if len(sources) == 0 {
		sources = DefaultViewports()
	}
	p.viewports = ViewportRegistry{}
	for _, src := range sources {
		if _, err = p.viewports.Add(src); err != nil {
			return err
		}
	}

	if p.ctx, err = negotiate(&info, p.rel); err != nil {
		return err
	}
	device := p.ctx.device

	if p.commands, err = newCommandPool(device, p.ctx.family, p.rel); err != nil {
		return errors.Wrap(err, "command pool")
	}

	if p.swapchain, err = newSwapchain(p.ctx, info.Width, info.Height, p.rel); err != nil {
		return errors.Wrap(err, "swapchain")
	}
	p.log.Info("vulkan: swapchain", "images", len(p.swapchain.Images),
		"width", p.swapchain.Extent.Width, "height", p.swapchain.Extent.Height)

	if p.sync, err = newSyncSet(device, p.rel); err != nil {
		return errors.Wrap(err, "sync")
	}

	if p.pass, err = newRenderPass(device, p.swapchain.Format.Format, p.rel); err != nil {
		return errors.Wrap(err, "render pass")
	}

	if p.shaders, err = loadShaders(device, info.AppRoot, p.rel); err != nil {
		return err
	}

	if p.graphics, err = newGraphicsPipeline(device, p.pass, p.shaders, p.log, p.rel); err != nil {
		return errors.Wrap(err, "graphics pipeline")
	}

	if err = p.swapchain.createFramebuffers(device, p.pass, p.rel); err != nil {
		return err
	}

	if p.uniform, err = newUniformBinding(device, p.ctx.memProps, p.graphics.setLayout, p.rel); err != nil {
		return err
	}
	data := p.viewports.UniformData()
	if err = p.uniform.write(device, &data); err != nil {
		return err
	}

	if !info.Video.Disabled {
		p.video, err = video.Bind(video.BindInfo{
			ProcAddr:    info.ProcAddr,
			Instance:    p.ctx.instance,
			GPU:         p.ctx.gpu,
			Device:      device,
			QueueFamily: p.ctx.family,
			Config:      info.Video,
			Allocator:   bufferAllocator{device: device, memProps: p.ctx.memProps},
			Logger:      p.log,
		})
		if err != nil {
			return errors.Wrap(err, "video session")
		}
		binding := p.video
		p.rel.push("video session", binding.Destroy)
	}

	p.ready = true
	p.log.Info("vulkan: pipeline ready", "viewports", p.viewports.Len())
	return nil
}

func (p *Pipeline) reset() {
	p.ctx = nil
	p.commands = nil
	p.swapchain = nil
	p.sync = nil
	p.pass = vk.RenderPass(vk.NullHandle)
	p.shaders = nil
	p.graphics = nil
	p.uniform = nil
	p.video = nil
	p.ready = false
}

// Viewports is the registry the pipeline draws from.
func (p *Pipeline) Viewports() *ViewportRegistry {
	return &p.viewports
}

func (p *Pipeline) Swapchain() *Swapchain {
	return p.swapchain
}

func (p *Pipeline) Video() *video.Binding {
	return p.video
}

// FrameState reports where the frame loop is; outside Draw it is FrameIdle.
func (p *Pipeline) FrameState() FrameState {
	if p.frames == nil {
		return FrameIdle
	}
	return p.frames.State()
}

// Draw renders and presents one frame. It returns once the GPU has finished
// the frame. An error means the frame loop cannot continue.
func (p *Pipeline) Draw() error {
	if !p.ready {
		return ErrNotSetup
	}
	return p.frames.run(deviceFrame{p: p})
}

// WaitIdle blocks until the device has no pending work.
func (p *Pipeline) WaitIdle() error {
	if !p.ready {
		return nil
	}
	return NewError("vkDeviceWaitIdle", vk.DeviceWaitIdle(p.ctx.device))
}

// Destroy releases everything Setup created, newest first. Calling it again
// does nothing.
func (p *Pipeline) Destroy() {
	if p.rel == nil {
		return
	}
	if p.ready {
		vk.DeviceWaitIdle(p.ctx.device)
	}
	p.rel.unwind()
	p.reset()
}

// deviceFrame issues one frame's commands against the pipeline's device.
type deviceFrame struct {
	p *Pipeline
}

func (d deviceFrame) acquire() (uint32, vk.Result) {
	var index uint32
	ret := vk.AcquireNextImage(d.p.ctx.device, d.p.swapchain.Handle, vk.MaxUint64,
		d.p.sync.imageAcquired, vk.NullFence, &index)
	return index, ret
}

func (d deviceFrame) resetFence() vk.Result {
	return vk.ResetFences(d.p.ctx.device, 1, []vk.Fence{d.p.sync.fence})
}

func (d deviceFrame) record(index uint32) error {
	return d.p.record(index)
}

func (d deviceFrame) submit() vk.Result {
	return vk.QueueSubmit(d.p.ctx.queue, 1, []vk.SubmitInfo{{
		SType:                vk.StructureTypeSubmitInfo,
		WaitSemaphoreCount:   1,
		PWaitSemaphores:      []vk.Semaphore{d.p.sync.imageAcquired},
		PWaitDstStageMask:    []vk.PipelineStageFlags{vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit)},
		CommandBufferCount:   1,
		PCommandBuffers:      []vk.CommandBuffer{d.p.commands.buffer},
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vk.Semaphore{d.p.sync.renderFinished},
	}}, d.p.sync.fence)
}

func (d deviceFrame) waitFence(timeout uint64) vk.Result {
	return vk.WaitForFences(d.p.ctx.device, 1, []vk.Fence{d.p.sync.fence}, vk.True, timeout)
}

func (d deviceFrame) present(index uint32) vk.Result {
	return vk.QueuePresent(d.p.ctx.queue, &vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{d.p.sync.renderFinished},
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{d.p.swapchain.Handle},
		PImageIndices:      []uint32{index},
	})
}

//Records the frame into the single command buffer: one pass on framebuffer
//index, then one draw per registered viewport.
func (p *Pipeline) record(index uint32) error {
	if int(index) >= len(p.swapchain.Framebuffers) {
		return errors.Errorf("vkplayer: image index %d beyond %d framebuffers", index, len(p.swapchain.Framebuffers))
	}
	cmd := p.commands.buffer
	if err := NewError("vkResetCommandBuffer", vk.ResetCommandBuffer(cmd, 0)); err != nil {
		return err
	}
	if err := NewError("vkBeginCommandBuffer", vk.BeginCommandBuffer(cmd, &vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
	})); err != nil {
		return err
	}

	vk.CmdBeginRenderPass(cmd, &vk.RenderPassBeginInfo{
		SType:       vk.StructureTypeRenderPassBeginInfo,
		RenderPass:  p.pass,
		Framebuffer: p.swapchain.Framebuffers[index],
		RenderArea: vk.Rect2D{
			Offset: vk.Offset2D{X: 0, Y: 0},
			Extent: p.swapchain.Extent,
		},
	}, vk.SubpassContentsInline)
	vk.CmdBindPipeline(cmd, vk.PipelineBindPointGraphics, p.graphics.handle)
	vk.CmdBindDescriptorSets(cmd, vk.PipelineBindPointGraphics, p.graphics.layout,
		0, 1, []vk.DescriptorSet{p.uniform.set}, 0, nil)

	recordViewports(cmdSink{cmd: cmd, layout: p.graphics.layout}, &p.viewports, p.swapchain.Extent)

	vk.CmdEndRenderPass(cmd)
	return NewError("vkEndCommandBuffer", vk.EndCommandBuffer(cmd))
}

// cmdSink writes viewport draws into a command buffer.
type cmdSink struct {
	cmd    vk.CommandBuffer
	layout vk.PipelineLayout
}

func (s cmdSink) setViewport(vp vk.Viewport) {
	vk.CmdSetViewport(s.cmd, 0, 1, []vk.Viewport{vp})
}

func (s cmdSink) setScissor(rect vk.Rect2D) {
	vk.CmdSetScissor(s.cmd, 0, 1, []vk.Rect2D{rect})
}

func (s cmdSink) pushViewportIndex(pc PushConstant) {
	vk.CmdPushConstants(s.cmd, s.layout, vk.ShaderStageFlags(vk.ShaderStageFragmentBit),
		0, pushConstantSize, unsafe.Pointer(&pc))
}

func (s cmdSink) draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	vk.CmdDraw(s.cmd, vertexCount, instanceCount, firstVertex, firstInstance)
}
