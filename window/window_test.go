package window

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

func fakeSystem(initErr error) (*system, *int, *int) {
	var inits, terms int
	s := &system{
		init: func() error {
			inits++
			return initErr
		},
		terminate: func() { terms++ },
	}
	return s, &inits, &terms
}

func TestSystemInitIdempotent(t *testing.T) {
	s, inits, terms := fakeSystem(nil)
	require.NoError(t, s.Init())
	require.NoError(t, s.Init())
	assert.Equal(t, 1, *inits)
	assert.True(t, s.ready())

	s.Terminate()
	s.Terminate()
	assert.Equal(t, 1, *terms)
	assert.False(t, s.ready())
}

func TestSystemNoInitAfterTerminate(t *testing.T) {
	s, inits, _ := fakeSystem(nil)
	require.NoError(t, s.Init())
	s.Terminate()

	err := s.Init()
	assert.True(t, errors.Is(err, ErrTerminated))
	assert.Equal(t, 1, *inits)
}

func TestSystemInitFailureRetries(t *testing.T) {
	s, inits, terms := fakeSystem(errors.New("no display"))
	assert.Error(t, s.Init())
	assert.Error(t, s.Init())
	assert.Equal(t, 2, *inits)

	s.Terminate()
	assert.Equal(t, 0, *terms, "nothing to shut down")
}

func TestCloseRequested(t *testing.T) {
	assert.True(t, closeRequested(glfw.KeyW, glfw.Press, glfw.ModControl))
	assert.True(t, closeRequested(glfw.KeyW, glfw.Press, glfw.ModControl|glfw.ModShift))
	assert.False(t, closeRequested(glfw.KeyW, glfw.Release, glfw.ModControl))
	assert.False(t, closeRequested(glfw.KeyW, glfw.Press, 0))
	assert.False(t, closeRequested(glfw.KeyQ, glfw.Press, glfw.ModControl))
}

func TestClassifySurfaceResult(t *testing.T) {
	cases := map[vk.Result]SurfaceReason{
		vk.ErrorExtensionNotPresent:  SurfaceExtensionMissing,
		vk.ErrorNativeWindowInUse:    SurfaceWindowInUse,
		vk.ErrorSurfaceLost:          SurfaceLost,
		vk.ErrorOutOfHostMemory:      SurfaceOutOfMemory,
		vk.ErrorOutOfDeviceMemory:    SurfaceOutOfMemory,
		vk.ErrorInitializationFailed: SurfaceInitFailed,
		vk.ErrorDeviceLost:           SurfaceUnknown,
	}
	for ret, want := range cases {
		assert.Equal(t, want, ClassifySurfaceResult(ret), "result %d", ret)
	}
}

func TestSurfaceReasonFromError(t *testing.T) {
	err := errors.Errorf("vulkan: error creating window surface: %d", int32(vk.ErrorSurfaceLost))
	assert.Equal(t, SurfaceLost, surfaceReason(err))
	assert.Equal(t, SurfaceUnknown, surfaceReason(errors.New("vulkan: instance is nil")))

	serr := &SurfaceError{Reason: SurfaceLost, Err: err}
	assert.Contains(t, serr.Error(), "surface lost")
	assert.True(t, errors.Is(serr, err))
}

func writeIcon(t *testing.T, size int) string {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 0x80, A: 0xff})
		}
	}
	path := filepath.Join(t.TempDir(), "icon.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestLoadIconAndSet(t *testing.T) {
	img, err := LoadIcon(writeIcon(t, 40))
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())

	set := IconSet(img, IconSizes...)
	require.Len(t, set, 3, "48 is not below the source size")
	assert.Equal(t, image.Rect(0, 0, 40, 40), set[0].Bounds())
	assert.Equal(t, image.Rect(0, 0, 16, 16), set[1].Bounds())
	assert.Equal(t, image.Rect(0, 0, 32, 32), set[2].Bounds())
	for _, icon := range set {
		assert.IsType(t, &image.NRGBA{}, icon)
	}
}

func TestLoadIconErrors(t *testing.T) {
	_, err := LoadIcon(filepath.Join(t.TempDir(), "none.png"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.png")
	require.NoError(t, os.WriteFile(path, []byte("not a png"), 0o644))
	_, err = LoadIcon(path)
	assert.Error(t, err)
}
