package vkplayer

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

// stubLoader replaces the loader queries for the duration of the test.
func stubLoader(t *testing.T, layers, instanceExts, deviceExts []string) *[]string {
	var queried []string
	savedLayers, savedInstance, savedDevice := enumerateLayers, enumerateInstanceExtensions, enumerateDeviceExtensions
	enumerateLayers = func() ([]string, error) {
		queried = append(queried, "layers")
		return layers, nil
	}
	enumerateInstanceExtensions = func() ([]string, error) {
		queried = append(queried, "instance extensions")
		return instanceExts, nil
	}
	enumerateDeviceExtensions = func(vk.PhysicalDevice) ([]string, error) {
		queried = append(queried, "device extensions")
		return deviceExts, nil
	}
	t.Cleanup(func() {
		enumerateLayers, enumerateInstanceExtensions, enumerateDeviceExtensions = savedLayers, savedInstance, savedDevice
	})
	return &queried
}

func TestCreateInstanceMissingLayer(t *testing.T) {
	queried := stubLoader(t, []string{LayerKhronosValidation}, []string{"VK_KHR_surface"}, nil)

	info := &SetupInfo{
		Layers:             []string{"VK_LAYER_LUNARG_monitor", LayerKhronosValidation},
		InstanceExtensions: []string{"VK_KHR_surface"},
		Logger:             quietLogger(),
	}
	r := &releaser{}
	instance, err := createInstance(info, r)

	require.Error(t, err)
	assert.Nil(t, instance)
	assert.True(t, errors.Is(err, ErrMissingLayers))
	var merr *MissingError
	require.True(t, errors.As(err, &merr))
	assert.Equal(t, []string{"VK_LAYER_LUNARG_monitor"}, merr.Names)
	assert.Equal(t, 0, r.len(), "nothing created")
	assert.Equal(t, []string{"layers"}, *queried, "fails before any other query")
}

func TestCreateInstanceMissingExtension(t *testing.T) {
	stubLoader(t, nil, []string{"VK_KHR_surface"}, nil)

	info := &SetupInfo{
		InstanceExtensions: []string{"VK_KHR_surface", ExtPortabilityEnumerate},
		Logger:             quietLogger(),
	}
	r := &releaser{}
	_, err := createInstance(info, r)

	assert.True(t, errors.Is(err, ErrMissingExtensions))
	var merr *MissingError
	require.True(t, errors.As(err, &merr))
	assert.Equal(t, []string{ExtPortabilityEnumerate}, merr.Names)
	assert.Equal(t, 0, r.len())
}

func TestCheckDeviceExtensions(t *testing.T) {
	stubLoader(t, nil, nil, []string{ExtSwapchain})

	assert.NoError(t, checkDeviceExtensions(nil, []string{ExtSwapchain}))

	err := checkDeviceExtensions(nil, []string{ExtSwapchain, "VK_KHR_video_queue"})
	assert.True(t, errors.Is(err, ErrMissingExtensions))
	assert.Contains(t, err.Error(), "VK_KHR_video_queue")
}

func TestDebugCallbackLevels(t *testing.T) {
	var buf bytes.Buffer
	saved := debugLog
	debugLog = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	t.Cleanup(func() { debugLog = saved })

	cases := []struct {
		flags vk.DebugReportFlagBits
		level string
	}{
		{vk.DebugReportErrorBit, "level=ERROR"},
		{vk.DebugReportErrorBit | vk.DebugReportWarningBit, "level=ERROR"},
		{vk.DebugReportWarningBit, "level=WARN"},
		{vk.DebugReportPerformanceWarningBit, "level=WARN"},
		{vk.DebugReportInformationBit, "level=DEBUG"},
		{vk.DebugReportDebugBit, "level=DEBUG"},
	}
	for _, c := range cases {
		buf.Reset()
		ret := dbgCallbackFunc(vk.DebugReportFlags(c.flags), 0, 0, 0, 7, "Validation", "bad handle", nil)
		assert.Equal(t, vk.Bool32(vk.False), ret)
		assert.Contains(t, buf.String(), c.level, "flags %#x", c.flags)
		assert.Contains(t, buf.String(), "Validation Layer: bad handle")
	}
}

func TestDebugCallbackNeverAborts(t *testing.T) {
	saved := debugLog
	debugLog = quietLogger()
	t.Cleanup(func() { debugLog = saved })

	all := []vk.DebugReportFlagBits{
		vk.DebugReportInformationBit,
		vk.DebugReportWarningBit,
		vk.DebugReportPerformanceWarningBit,
		vk.DebugReportErrorBit,
		vk.DebugReportDebugBit,
	}
	for mask := 0; mask < 1<<len(all); mask++ {
		var flags vk.DebugReportFlags
		for i, bit := range all {
			if mask&(1<<i) != 0 {
				flags |= vk.DebugReportFlags(bit)
			}
		}
		assert.Equal(t, vk.Bool32(vk.False), dbgCallbackFunc(flags, 0, 0, 0, 0, "", "", nil))
	}
}
