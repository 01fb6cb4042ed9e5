package video

import (
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultProfile(t *testing.T) {
	p := DefaultProfile()
	assert.Equal(t, CodecH264, p.Codec)
	assert.Equal(t, Chroma420, p.Chroma)
	assert.Equal(t, 8, p.LumaBitDepth)
	assert.Equal(t, 8, p.ChromaBitDepth)
	assert.NoError(t, p.Validate())
}

func TestProfileDeviceExtensions(t *testing.T) {
	assert.Equal(t,
		[]string{"VK_KHR_video_queue", "VK_KHR_video_decode_queue", "VK_KHR_video_decode_h264"},
		DefaultProfile().DeviceExtensions())

	h265 := Profile{Codec: CodecH265, Chroma: Chroma420, LumaBitDepth: 10, ChromaBitDepth: 10}
	assert.Contains(t, h265.DeviceExtensions(), "VK_KHR_video_decode_h265")
	assert.NotContains(t, h265.DeviceExtensions(), "VK_KHR_video_decode_h264")
}

func TestProfileValidate(t *testing.T) {
	p := DefaultProfile()
	p.LumaBitDepth = 10
	assert.Error(t, p.Validate(), "h264 is 8 bit only")

	p = Profile{Codec: CodecH265, LumaBitDepth: 10, ChromaBitDepth: 10}
	assert.NoError(t, p.Validate())

	p.ChromaBitDepth = 9
	assert.Error(t, p.Validate())
}

func TestConfigDisabled(t *testing.T) {
	cfg := DefaultConfig()
	assert.Len(t, cfg.DeviceExtensions(), 3)

	cfg.Disabled = true
	cfg.BufferSize = 0
	assert.Empty(t, cfg.DeviceExtensions())
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.EqualValues(t, 1000000, cfg.BufferSize)
	assert.EqualValues(t, 3840, cfg.MaxWidth)
	assert.EqualValues(t, 2160, cfg.MaxHeight)

	cfg.MaxHeight = 0
	assert.Error(t, cfg.Validate())
}

func TestConfigTOML(t *testing.T) {
	doc := `
source = "media/clip.mp4"
buffer_size = 2048
max_width = 1920
max_height = 1080

[profile]
codec = "hevc"
chroma = "420"
luma_bit_depth = 10
chroma_bit_depth = 10
`
	var cfg Config
	require.NoError(t, toml.Unmarshal([]byte(doc), &cfg))
	assert.Equal(t, CodecH265, cfg.Profile.Codec)
	assert.Equal(t, Chroma420, cfg.Profile.Chroma)
	assert.Equal(t, "media/clip.mp4", cfg.Source)
	assert.NoError(t, cfg.Validate())

	var bad Config
	assert.Error(t, toml.Unmarshal([]byte("[profile]\ncodec = \"vp9\"\n"), &bad))
}

func TestZeroConfigNormalize(t *testing.T) {
	var cfg Config
	assert.Len(t, cfg.DeviceExtensions(), 3, "zero value stages decode")

	cfg.Normalize()
	assert.Equal(t, DefaultConfig(), cfg)
	assert.NoError(t, cfg.Validate())

	cfg = Config{BufferSize: 4096, Profile: Profile{Codec: CodecH265, LumaBitDepth: 10}}
	cfg.Normalize()
	assert.EqualValues(t, 4096, cfg.BufferSize, "set values are kept")
	assert.Equal(t, 10, cfg.Profile.ChromaBitDepth, "chroma depth follows luma")
	assert.NoError(t, cfg.Validate())
}
