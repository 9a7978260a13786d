// Package export turns color-buffer readbacks into image files.
package export

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/HugoSmits86/nativewebp"

	"github.com/pudnax/compaster/internal/raster"
)

// Image converts a color-buffer readback into an NRGBA image. Out-of-range
// shade values clamp to [0, 255]; the pipeline carries no alpha, so every
// pixel is opaque.
func Image(pix []raster.Pixel, width, height int) (*image.NRGBA, error) {
	if len(pix) != width*height {
		return nil, fmt.Errorf("export: %dx%d image needs %d pixels, got %d",
			width, height, width*height, len(pix))
	}
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i, p := range pix {
		o := i * 4
		img.Pix[o+0] = clamp8(p.R)
		img.Pix[o+1] = clamp8(p.G)
		img.Pix[o+2] = clamp8(p.B)
		img.Pix[o+3] = 0xFF
	}
	return img, nil
}

// SaveWebP writes img losslessly to path.
func SaveWebP(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: create %s: %w", path, err)
	}
	if err := nativewebp.Encode(f, img, nil); err != nil {
		f.Close()
		return fmt.Errorf("export: encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("export: close %s: %w", path, err)
	}
	return nil
}

// SavePNG writes img to path.
func SavePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("export: encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("export: close %s: %w", path, err)
	}
	return nil
}

func clamp8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
