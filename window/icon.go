package window

import (
	"image"
	"image/png"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

// IconSizes are the square sizes window managers commonly pick from.
var IconSizes = []int{16, 32, 48}

// LoadIcon decodes a PNG icon.
func LoadIcon(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "icon")
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "icon %s", path)
	}
	return img, nil
}

// IconSet returns src followed by copies scaled to each of sizes, as RGBA
// images. Sizes at or above the source width are skipped.
func IconSet(src image.Image, sizes ...int) []image.Image {
	set := []image.Image{toNRGBA(src)}
	w := src.Bounds().Dx()
	for _, size := range sizes {
		if size <= 0 || size >= w {
			continue
		}
		dst := image.NewNRGBA(image.Rect(0, 0, size, size))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
		set = append(set, dst)
	}
	return set
}

func toNRGBA(src image.Image) *image.NRGBA {
	if img, ok := src.(*image.NRGBA); ok {
		return img
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}
