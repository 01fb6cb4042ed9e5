package vkplayer

import (
	"log/slog"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// FenceWaitTimeout bounds each host wait on the frame fence, in nanoseconds.
// A timeout is retried, so it only sets how often the wait loop wakes.
const FenceWaitTimeout uint64 = 1000000000

// FrameState is the position of the frame loop within one frame.
type FrameState int

const (
	FrameIdle FrameState = iota
	FrameAcquiring
	FrameRecording
	FrameSubmitted
	FrameWaiting
	FramePresenting
)

func (s FrameState) String() string {
	switch s {
	case FrameIdle:
		return "idle"
	case FrameAcquiring:
		return "acquiring"
	case FrameRecording:
		return "recording"
	case FrameSubmitted:
		return "submitted"
	case FrameWaiting:
		return "waiting"
	case FramePresenting:
		return "presenting"
	}
	return "unknown"
}

// PresentOutcome classifies a present result.
type PresentOutcome int

const (
	PresentOK PresentOutcome = iota
	PresentSuboptimal
	PresentUnexpected
)

func classifyPresent(ret vk.Result) PresentOutcome {
	switch ret {
	case vk.Success:
		return PresentOK
	case vk.Suboptimal:
		return PresentSuboptimal
	}
	return PresentUnexpected
}

type fenceState int

const (
	fenceSignaled fenceState = iota
	fenceReset
	fencePending
)

// frameOps is the device side of one frame.
type frameOps interface {
	acquire() (uint32, vk.Result)
	resetFence() vk.Result
	record(index uint32) error
	submit() vk.Result
	waitFence(timeout uint64) vk.Result
	present(index uint32) vk.Result
}

// frameSync drives the acquire, reset, record, submit, wait, present order
// for a single frame in flight and checks the fence is used correctly.
type frameSync struct {
	log   *slog.Logger
	state FrameState
	fence fenceState

	frames    uint64
	waitRetry uint64
}

func newFrameSync(log *slog.Logger) *frameSync {
	return &frameSync{log: log, fence: fenceSignaled}
}

func (f *frameSync) State() FrameState {
	return f.state
}

func (f *frameSync) run(ops frameOps) (err error) {
	if f.state != FrameIdle {
		return errors.Errorf("vkplayer: frame started in state %s", f.state)
	}
	defer func() { f.state = FrameIdle }()

	f.state = FrameAcquiring
	index, ret := ops.acquire()
	switch ret {
	case vk.Success:
	case vk.Suboptimal:
		f.log.Debug("vulkan: acquired image is suboptimal", "index", index)
	default:
		return errors.Wrapf(ErrUnexpectedResult, "vkAcquireNextImageKHR: %v (%d)", vk.Error(ret), ret)
	}

	if err := f.resetFence(ops); err != nil {
		return err
	}

	f.state = FrameRecording
	if err := ops.record(index); err != nil {
		return errors.Wrap(err, "record")
	}

	if err := NewError("vkQueueSubmit", ops.submit()); err != nil {
		return err
	}
	f.fence = fencePending
	f.state = FrameSubmitted

	if err := f.waitFence(ops); err != nil {
		return err
	}

	f.state = FramePresenting
	ret = ops.present(index)
	switch classifyPresent(ret) {
	case PresentOK:
	case PresentSuboptimal:
		f.log.Info("vulkan: swapchain suboptimal", "index", index)
	default:
		return errors.Wrapf(ErrUnexpectedResult, "vkQueuePresentKHR: %v (%d)", vk.Error(ret), ret)
	}
	f.frames++
	return nil
}

func (f *frameSync) resetFence(ops frameOps) error {
	if f.fence == fencePending {
		return errors.Wrap(ErrFenceDiscipline, "reset of an in-flight fence")
	}
	if err := NewError("vkResetFences", ops.resetFence()); err != nil {
		return err
	}
	f.fence = fenceReset
	return nil
}

// waitFence blocks until the submitted work completes, retrying on timeout.
func (f *frameSync) waitFence(ops frameOps) error {
	if f.fence != fencePending {
		return errors.Wrap(ErrFenceDiscipline, "wait without reset and submit")
	}
	f.state = FrameWaiting
	for {
		ret := ops.waitFence(FenceWaitTimeout)
		switch ret {
		case vk.Success:
			f.fence = fenceSignaled
			return nil
		case vk.Timeout:
			f.waitRetry++
			f.log.Debug("vulkan: frame fence wait timed out, retrying")
			continue
		}
		return NewError("vkWaitForFences", ret)
	}
}

// commandSink receives the per-viewport draw commands.
type commandSink interface {
	setViewport(vp vk.Viewport)
	setScissor(rect vk.Rect2D)
	pushViewportIndex(pc PushConstant)
	draw(vertexCount, instanceCount, firstVertex, firstInstance uint32)
}

// Vertices per viewport; the vertex shader generates them from the vertex index.
const viewportVertexCount = 9

func recordViewports(sink commandSink, reg *ViewportRegistry, extent vk.Extent2D) {
	for i := 0; i < reg.Len(); i++ {
		vp := reg.Get(i, extent)
		sink.setViewport(vp.Viewport)
		sink.setScissor(vp.Scissor)
		sink.pushViewportIndex(PushConstant{ViewportIndex: uint32(i)})
		sink.draw(viewportVertexCount, 1, 0, 0)
	}
}
