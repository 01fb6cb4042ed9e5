package video

/*
#include <stdlib.h>
#include <string.h>
#include <vulkan/vulkan.h>

typedef struct {
	PFN_vkGetPhysicalDeviceVideoFormatPropertiesKHR formats;
	PFN_vkCreateVideoSessionKHR create;
	PFN_vkDestroyVideoSessionKHR destroy;
} vkp_video_fns;

typedef struct {
	VkVideoDecodeH264ProfileInfoKHR h264;
	VkVideoDecodeH265ProfileInfoKHR h265;
	VkVideoProfileInfoKHR profile;
	VkVideoProfileListInfoKHR list;
} vkp_profile;

static int vkp_load(void* gipa, VkInstance instance, VkDevice device, vkp_video_fns* fns) {
	PFN_vkGetInstanceProcAddr getInstance = (PFN_vkGetInstanceProcAddr)gipa;
	if (getInstance == NULL) return 0;
	PFN_vkGetDeviceProcAddr getDevice = (PFN_vkGetDeviceProcAddr)getInstance(instance, "vkGetDeviceProcAddr");
	if (getDevice == NULL) return 0;
	fns->formats = (PFN_vkGetPhysicalDeviceVideoFormatPropertiesKHR)
		getInstance(instance, "vkGetPhysicalDeviceVideoFormatPropertiesKHR");
	fns->create = (PFN_vkCreateVideoSessionKHR)getDevice(device, "vkCreateVideoSessionKHR");
	fns->destroy = (PFN_vkDestroyVideoSessionKHR)getDevice(device, "vkDestroyVideoSessionKHR");
	return fns->formats != NULL && fns->create != NULL && fns->destroy != NULL;
}

static vkp_profile* vkp_new_profile(int h265, VkVideoChromaSubsamplingFlagsKHR chroma,
	VkVideoComponentBitDepthFlagsKHR luma, VkVideoComponentBitDepthFlagsKHR chromaDepth) {
	vkp_profile* p = calloc(1, sizeof(vkp_profile));
	if (p == NULL) return NULL;

	p->h264.sType = VK_STRUCTURE_TYPE_VIDEO_DECODE_H264_PROFILE_INFO_KHR;
	p->h264.stdProfileIdc = STD_VIDEO_H264_PROFILE_IDC_BASELINE;
	p->h264.pictureLayout = VK_VIDEO_DECODE_H264_PICTURE_LAYOUT_PROGRESSIVE_KHR;

	p->h265.sType = VK_STRUCTURE_TYPE_VIDEO_DECODE_H265_PROFILE_INFO_KHR;
	p->h265.stdProfileIdc = luma == VK_VIDEO_COMPONENT_BIT_DEPTH_8_BIT_KHR ?
		STD_VIDEO_H265_PROFILE_IDC_MAIN : STD_VIDEO_H265_PROFILE_IDC_MAIN_10;

	p->profile.sType = VK_STRUCTURE_TYPE_VIDEO_PROFILE_INFO_KHR;
	if (h265) {
		p->profile.pNext = &p->h265;
		p->profile.videoCodecOperation = VK_VIDEO_CODEC_OPERATION_DECODE_H265_BIT_KHR;
	} else {
		p->profile.pNext = &p->h264;
		p->profile.videoCodecOperation = VK_VIDEO_CODEC_OPERATION_DECODE_H264_BIT_KHR;
	}
	p->profile.chromaSubsampling = chroma;
	p->profile.lumaBitDepth = luma;
	p->profile.chromaBitDepth = chromaDepth;

	p->list.sType = VK_STRUCTURE_TYPE_VIDEO_PROFILE_LIST_INFO_KHR;
	p->list.profileCount = 1;
	p->list.pProfiles = &p->profile;
	return p;
}

static void* vkp_profile_list(vkp_profile* p) {
	return &p->list;
}

static VkResult vkp_video_formats(vkp_video_fns* fns, VkPhysicalDevice gpu, vkp_profile* p,
	uint32_t* count, VkFormat* out) {
	VkPhysicalDeviceVideoFormatInfoKHR info;
	memset(&info, 0, sizeof(info));
	info.sType = VK_STRUCTURE_TYPE_PHYSICAL_DEVICE_VIDEO_FORMAT_INFO_KHR;
	info.pNext = &p->list;
	info.imageUsage = VK_IMAGE_USAGE_VIDEO_DECODE_DST_BIT_KHR;

	if (out == NULL) return fns->formats(gpu, &info, count, NULL);

	VkVideoFormatPropertiesKHR* props = calloc(*count, sizeof(VkVideoFormatPropertiesKHR));
	if (props == NULL) return VK_ERROR_OUT_OF_HOST_MEMORY;
	for (uint32_t i = 0; i < *count; i++) {
		props[i].sType = VK_STRUCTURE_TYPE_VIDEO_FORMAT_PROPERTIES_KHR;
	}
	VkResult r = fns->formats(gpu, &info, count, props);
	for (uint32_t i = 0; i < *count; i++) {
		out[i] = props[i].format;
	}
	free(props);
	return r;
}

static VkResult vkp_create_session(vkp_video_fns* fns, VkDevice device, uint32_t family, vkp_profile* p,
	VkFormat format, uint32_t width, uint32_t height, VkVideoSessionKHR* out) {
	VkExtensionProperties header;
	memset(&header, 0, sizeof(header));
	if (p->profile.videoCodecOperation == VK_VIDEO_CODEC_OPERATION_DECODE_H265_BIT_KHR) {
		strncpy(header.extensionName, VK_STD_VULKAN_VIDEO_CODEC_H265_DECODE_EXTENSION_NAME, VK_MAX_EXTENSION_NAME_SIZE - 1);
		header.specVersion = VK_STD_VULKAN_VIDEO_CODEC_H265_DECODE_SPEC_VERSION;
	} else {
		strncpy(header.extensionName, VK_STD_VULKAN_VIDEO_CODEC_H264_DECODE_EXTENSION_NAME, VK_MAX_EXTENSION_NAME_SIZE - 1);
		header.specVersion = VK_STD_VULKAN_VIDEO_CODEC_H264_DECODE_SPEC_VERSION;
	}

	VkVideoSessionCreateInfoKHR info;
	memset(&info, 0, sizeof(info));
	info.sType = VK_STRUCTURE_TYPE_VIDEO_SESSION_CREATE_INFO_KHR;
	info.queueFamilyIndex = family;
	info.pVideoProfile = &p->profile;
	info.pictureFormat = format;
	info.maxCodedExtent.width = width;
	info.maxCodedExtent.height = height;
	info.referencePictureFormat = format;
	info.pStdHeaderVersion = &header;
	return fns->create(device, &info, NULL, out);
}

static void vkp_destroy_session(vkp_video_fns* fns, VkDevice device, VkVideoSessionKHR session) {
	if (fns->destroy != NULL && session != VK_NULL_HANDLE) {
		fns->destroy(device, session, NULL);
	}
}
*/
import "C"

import (
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

var (
	ErrUnavailable   = errors.New("video: decode entry points not available")
	ErrNoVideoFormat = errors.New("video: no decode output format for profile")
)

const bufferUsageVideoDecodeSrc vk.BufferUsageFlagBits = 0x00002000

// Allocator creates and binds host buffers for the decode source.
type Allocator interface {
	CreateBuffer(size vk.DeviceSize, usage vk.BufferUsageFlags, flags vk.MemoryPropertyFlags, pNext unsafe.Pointer) (vk.Buffer, vk.DeviceMemory, error)
	DestroyBuffer(buffer vk.Buffer, memory vk.DeviceMemory)
}

type BindInfo struct {
	// ProcAddr is the loader's vkGetInstanceProcAddr.
	ProcAddr    unsafe.Pointer
	Instance    vk.Instance
	GPU         vk.PhysicalDevice
	Device      vk.Device
	QueueFamily uint32
	Config      Config
	Allocator   Allocator
	Logger      *slog.Logger
}

// Binding is a staged decode session and its source buffer.
type Binding struct {
	Profile Profile
	Format  vk.Format
	Formats []vk.Format
	Buffer  vk.Buffer
	Memory  vk.DeviceMemory
	Source  string

	device  vk.Device
	alloc   Allocator
	fns     C.vkp_video_fns
	profile *C.vkp_profile
	session C.VkVideoSessionKHR
}

type resultError struct {
	op     string
	result vk.Result
}

func (e *resultError) Error() string {
	return fmt.Sprintf("video: %s: %s (%d)", e.op, vk.Error(e.result).Error(), e.result)
}

func check(op string, ret C.VkResult) error {
	if vk.Result(ret) == vk.Success {
		return nil
	}
	return errors.WithStack(&resultError{op: op, result: vk.Result(ret)})
}

// Bind stages the decode session described by info.Config. A failure part way
// releases whatever was created before returning.
func Bind(info BindInfo) (_ *Binding, err error) {
	cfg := info.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if info.Allocator == nil {
		return nil, errors.New("video: no buffer allocator")
	}
	log := info.Logger
	if log == nil {
		log = slog.Default()
	}

	b := &Binding{
		Profile: cfg.Profile,
		Source:  cfg.Source,
		device:  info.Device,
		alloc:   info.Allocator,
	}
	defer func() {
		if err != nil {
			b.Destroy()
		}
	}()

	ok := C.vkp_load(info.ProcAddr,
		C.VkInstance(unsafe.Pointer(info.Instance)),
		C.VkDevice(unsafe.Pointer(info.Device)),
		&b.fns)
	if ok == 0 {
		return nil, ErrUnavailable
	}

	b.profile = C.vkp_new_profile(codecFlag(cfg.Profile.Codec), chromaFlags(cfg.Profile.Chroma),
		depthFlags(cfg.Profile.LumaBitDepth), depthFlags(cfg.Profile.ChromaBitDepth))
	if b.profile == nil {
		return nil, errors.New("video: out of host memory")
	}

	if b.Formats, err = b.enumerateFormats(info.GPU); err != nil {
		return nil, err
	}
	if len(b.Formats) == 0 {
		return nil, ErrNoVideoFormat
	}
	b.Format = b.Formats[0]
	log.Info("vulkan: video decode formats", "count", len(b.Formats), "formats", b.Formats, "chosen", b.Format)

	b.Buffer, b.Memory, err = info.Allocator.CreateBuffer(
		vk.DeviceSize(cfg.BufferSize),
		vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit|bufferUsageVideoDecodeSrc),
		vk.MemoryPropertyFlags(vk.MemoryPropertyHostCoherentBit),
		C.vkp_profile_list(b.profile))
	if err != nil {
		return nil, errors.Wrap(err, "video: decode source buffer")
	}

	ret := C.vkp_create_session(&b.fns, C.VkDevice(unsafe.Pointer(info.Device)), C.uint32_t(info.QueueFamily),
		b.profile, C.VkFormat(b.Format), C.uint32_t(cfg.MaxWidth), C.uint32_t(cfg.MaxHeight), &b.session)
	if err = check("vkCreateVideoSessionKHR", ret); err != nil {
		return nil, err
	}

	if cfg.Source != "" {
		log.Info("vulkan: video source staged", "path", cfg.Source, "codec", cfg.Profile.Codec)
	}
	return b, nil
}

func (b *Binding) enumerateFormats(gpu vk.PhysicalDevice) ([]vk.Format, error) {
	cgpu := C.VkPhysicalDevice(unsafe.Pointer(gpu))
	var count C.uint32_t
	if err := check("vkGetPhysicalDeviceVideoFormatPropertiesKHR", C.vkp_video_formats(&b.fns, cgpu, b.profile, &count, nil)); err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}
	list := make([]C.VkFormat, count)
	if err := check("vkGetPhysicalDeviceVideoFormatPropertiesKHR", C.vkp_video_formats(&b.fns, cgpu, b.profile, &count, &list[0])); err != nil {
		return nil, err
	}
	formats := make([]vk.Format, 0, count)
	for _, f := range list[:count] {
		formats = append(formats, vk.Format(f))
	}
	return formats, nil
}

// Destroy releases the session, then the buffer and its memory. Safe to call twice.
func (b *Binding) Destroy() {
	if b == nil {
		return
	}
	if b.session != nil {
		C.vkp_destroy_session(&b.fns, C.VkDevice(unsafe.Pointer(b.device)), b.session)
		b.session = nil
	}
	if b.Buffer != vk.NullBuffer && b.alloc != nil {
		b.alloc.DestroyBuffer(b.Buffer, b.Memory)
		b.Buffer = vk.NullBuffer
		b.Memory = vk.NullDeviceMemory
	}
	if b.profile != nil {
		C.free(unsafe.Pointer(b.profile))
		b.profile = nil
	}
}

func codecFlag(c Codec) C.int {
	if c == CodecH265 {
		return 1
	}
	return 0
}

func chromaFlags(c Chroma) C.VkVideoChromaSubsamplingFlagsKHR {
	switch c {
	case Chroma422:
		return C.VK_VIDEO_CHROMA_SUBSAMPLING_422_BIT_KHR
	case Chroma444:
		return C.VK_VIDEO_CHROMA_SUBSAMPLING_444_BIT_KHR
	case ChromaMonochrome:
		return C.VK_VIDEO_CHROMA_SUBSAMPLING_MONOCHROME_BIT_KHR
	}
	return C.VK_VIDEO_CHROMA_SUBSAMPLING_420_BIT_KHR
}

func depthFlags(bits int) C.VkVideoComponentBitDepthFlagsKHR {
	switch bits {
	case 10:
		return C.VK_VIDEO_COMPONENT_BIT_DEPTH_10_BIT_KHR
	case 12:
		return C.VK_VIDEO_COMPONENT_BIT_DEPTH_12_BIT_KHR
	}
	return C.VK_VIDEO_COMPONENT_BIT_DEPTH_8_BIT_KHR
}
