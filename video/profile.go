// Package video stages a hardware decode session: a decode-source buffer
// bound to the decode profile, the chosen output format and the session
// object itself. No decode commands are recorded.
package video

import (
	"strings"

	"github.com/pkg/errors"
)

// Codec is the compressed stream format a session decodes.
type Codec int

const (
	CodecH264 Codec = iota
	CodecH265
)

func (c Codec) String() string {
	switch c {
	case CodecH264:
		return "h264"
	case CodecH265:
		return "h265"
	}
	return "unknown"
}

func (c Codec) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Codec) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "h264", "avc":
		*c = CodecH264
	case "h265", "hevc":
		*c = CodecH265
	default:
		return errors.Errorf("video: unknown codec %q", text)
	}
	return nil
}

// Chroma is the chroma subsampling of decoded pictures.
type Chroma int

const (
	Chroma420 Chroma = iota
	Chroma422
	Chroma444
	ChromaMonochrome
)

func (c Chroma) String() string {
	switch c {
	case Chroma420:
		return "420"
	case Chroma422:
		return "422"
	case Chroma444:
		return "444"
	case ChromaMonochrome:
		return "mono"
	}
	return "unknown"
}

func (c Chroma) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Chroma) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "420":
		*c = Chroma420
	case "422":
		*c = Chroma422
	case "444":
		*c = Chroma444
	case "mono", "monochrome", "400":
		*c = ChromaMonochrome
	default:
		return errors.Errorf("video: unknown chroma subsampling %q", text)
	}
	return nil
}

// Profile selects the decode operation. Bit depths are in bits per component.
type Profile struct {
	Codec          Codec  `toml:"codec"`
	Chroma         Chroma `toml:"chroma"`
	LumaBitDepth   int    `toml:"luma_bit_depth"`
	ChromaBitDepth int    `toml:"chroma_bit_depth"`
}

// DefaultProfile is H.264 baseline, 4:2:0, 8 bit.
func DefaultProfile() Profile {
	return Profile{Codec: CodecH264, Chroma: Chroma420, LumaBitDepth: 8, ChromaBitDepth: 8}
}

func (p Profile) Validate() error {
	for _, depth := range []int{p.LumaBitDepth, p.ChromaBitDepth} {
		switch depth {
		case 8, 10, 12:
		default:
			return errors.Errorf("video: unsupported bit depth %d", depth)
		}
	}
	if p.Codec == CodecH264 && p.LumaBitDepth != 8 {
		return errors.Errorf("video: h264 decode is limited to 8 bit, got %d", p.LumaBitDepth)
	}
	return nil
}

// DeviceExtensions names the device extensions a session for p needs.
func (p Profile) DeviceExtensions() []string {
	exts := []string{"VK_KHR_video_queue", "VK_KHR_video_decode_queue"}
	switch p.Codec {
	case CodecH265:
		exts = append(exts, "VK_KHR_video_decode_h265")
	default:
		exts = append(exts, "VK_KHR_video_decode_h264")
	}
	return exts
}

// Config is the video section of the player configuration.
// The zero value stages a session; Normalize fills its sizes and profile.
type Config struct {
	Disabled bool    `toml:"disabled"`
	Profile  Profile `toml:"profile"`

	// Source is a media path recorded for later decode work; it is never opened here.
	Source string `toml:"source"`

	BufferSize uint64 `toml:"buffer_size"`
	MaxWidth   uint32 `toml:"max_width"`
	MaxHeight  uint32 `toml:"max_height"`
}

const (
	DefaultBufferSize = 1000000
	DefaultMaxWidth   = 3840
	DefaultMaxHeight  = 2160
)

func DefaultConfig() Config {
	return Config{
		Profile:    DefaultProfile(),
		BufferSize: DefaultBufferSize,
		MaxWidth:   DefaultMaxWidth,
		MaxHeight:  DefaultMaxHeight,
	}
}

// Normalize replaces unset sizes and bit depths with the defaults.
func (c *Config) Normalize() {
	if c.BufferSize == 0 {
		c.BufferSize = DefaultBufferSize
	}
	if c.MaxWidth == 0 {
		c.MaxWidth = DefaultMaxWidth
	}
	if c.MaxHeight == 0 {
		c.MaxHeight = DefaultMaxHeight
	}
	if c.Profile.LumaBitDepth == 0 {
		c.Profile.LumaBitDepth = 8
	}
	if c.Profile.ChromaBitDepth == 0 {
		c.Profile.ChromaBitDepth = c.Profile.LumaBitDepth
	}
}

// DeviceExtensions is empty when decode staging is disabled.
func (c Config) DeviceExtensions() []string {
	if c.Disabled {
		return nil
	}
	return c.Profile.DeviceExtensions()
}

func (c Config) Validate() error {
	if c.Disabled {
		return nil
	}
	if c.BufferSize == 0 {
		return errors.New("video: buffer_size must be positive")
	}
	if c.MaxWidth == 0 || c.MaxHeight == 0 {
		return errors.New("video: max coded extent must be positive")
	}
	return c.Profile.Validate()
}
