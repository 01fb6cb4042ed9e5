package vkplayer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/andewx/vkplayer/video"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, uint32(1024), cfg.Window.Width)
	assert.Equal(t, uint32(512), cfg.Window.Height)
	require.Len(t, cfg.Viewports, 2)
	assert.Equal(t, DefaultViewports()[1], cfg.Viewports[1].Source())
	assert.False(t, cfg.Video.Disabled)
}

func TestDecodeConfigOverridesDefaults(t *testing.T) {
	cfg := DefaultConfig()
	err := DecodeConfig([]byte(`
validation = true

[window]
width = 800
x = 10

[[viewport]]
x = 0.25
y = 0.25
width = 0.5
height = 0.5
color = [1.0, 0.0, 0.0, 1.0]

[video]
source = "clip.mp4"

[video.profile]
codec = "hevc"
luma_bit_depth = 10
chroma_bit_depth = 10
`), &cfg)
	require.NoError(t, err)

	assert.True(t, cfg.Validation)
	assert.Equal(t, uint32(800), cfg.Window.Width)
	assert.Equal(t, uint32(512), cfg.Window.Height, "unset keys keep defaults")
	require.NotNil(t, cfg.Window.X)
	assert.Equal(t, 10, *cfg.Window.X)
	assert.Nil(t, cfg.Window.Y)

	require.Len(t, cfg.Viewports, 1, "a viewport array replaces the defaults")
	assert.Equal(t, RGBA(1, 0, 0, 1), cfg.Viewports[0].Source().Color)

	assert.Equal(t, video.CodecH265, cfg.Video.Profile.Codec)
	assert.Equal(t, "clip.mp4", cfg.Video.Source)
	assert.Equal(t, uint64(video.DefaultBufferSize), cfg.Video.BufferSize)
}

func TestDecodeConfigRejects(t *testing.T) {
	cases := map[string]string{
		"unknown key":    "colour = 1",
		"bad codec":      "[video.profile]\ncodec = \"vp9\"",
		"zero width":     "[window]\nwidth = 0",
		"outside unit":   "[[viewport]]\nx = 0.75\nwidth = 0.5\nheight = 1.0",
		"empty viewport": "[[viewport]]\nwidth = 0.0\nheight = 1.0",
		"h264 10 bit":    "[video.profile]\nluma_bit_depth = 10",
		"not toml":       "[window",
		"nan x":          "[[viewport]]\nx = nan\nwidth = 0.5\nheight = 1.0",
		"nan width":      "[[viewport]]\nwidth = nan\nheight = 1.0",
		"inf height":     "[[viewport]]\nwidth = 0.5\nheight = inf",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			assert.Error(t, DecodeConfig([]byte(data), &cfg))
		})
	}
}

func TestDecodeConfigTooManyViewports(t *testing.T) {
	var data []byte
	for i := 0; i <= MaxViewports; i++ {
		data = append(data, "[[viewport]]\nwidth = 0.1\nheight = 0.1\n"...)
	}
	cfg := DefaultConfig()
	err := DecodeConfig(data, &cfg)
	assert.True(t, errors.Is(err, ErrViewportCapacity))
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "player.toml")
	require.NoError(t, os.WriteFile(path, []byte("app_name = \"wall\"\n[video]\ndisabled = true\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "wall", cfg.AppName)
	assert.True(t, cfg.Video.Disabled)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestConfigSetupInfo(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AppRoot = "/opt/player"
	cfg.Validation = true

	info := cfg.SetupInfo("", nil, quietLogger())
	assert.Equal(t, "/opt/player", info.AppRoot)
	assert.True(t, info.EnableValidation)
	assert.Equal(t, DefaultViewports(), info.Viewports)

	info = cfg.SetupInfo("/srv", nil, nil)
	assert.Equal(t, "/srv", info.AppRoot)
}
