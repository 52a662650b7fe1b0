package segment

import (
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

var ErrEmptyImage = errors.New("image has no pixels")

// Raster is a read-only NRGBA copy of a decoded page, origin at (0,0).
type Raster struct {
	img *image.NRGBA
}

func NewRaster(src image.Image) (*Raster, error) {
	if src == nil || src.Bounds().Empty() {
		return nil, ErrEmptyImage
	}

	return &Raster{img: imaging.Clone(src)}, nil
}

// Load decodes any format registered with the image package: JPEG, PNG,
// GIF, BMP and TIFF through imaging, WebP through x/image.
func Load(path string) (*Raster, error) {
	src, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	r, err := NewRaster(src)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	return r, nil
}

func (r *Raster) Width() int  { return r.img.Rect.Dx() }
func (r *Raster) Height() int { return r.img.Rect.Dy() }

// At returns the colour channels at (x, y); ok is false outside the raster.
func (r *Raster) At(x, y int) (red, green, blue uint8, ok bool) {
	if x < 0 || y < 0 || x >= r.Width() || y >= r.Height() {
		return 0, 0, 0, false
	}

	i := r.img.PixOffset(x, y)
	p := r.img.Pix[i : i+3 : i+3]
	return p[0], p[1], p[2], true
}

// row returns the NRGBA bytes of row y. Unchecked: callers keep
// 0 <= y < Height().
func (r *Raster) row(y int) []uint8 {
	start := y * r.img.Stride
	return r.img.Pix[start : start+r.Width()*4]
}

// Crop copies the full-width slice covered by fr.
func (r *Raster) Crop(fr FrameRange) (*image.NRGBA, error) {
	if fr.StartY < 0 || fr.EndY >= r.Height() || fr.Height() <= 0 {
		return nil, fmt.Errorf("frame %s outside image height %d", fr, r.Height())
	}

	return imaging.Crop(r.img, image.Rect(0, fr.StartY, r.Width(), fr.EndY+1)), nil
}
