package raster

import (
	"fmt"
	"image"
	"image/color"

	logInternal "github.com/AlexStarov/escpos-landscape/log"
)

// GS8LMaxY is the band height used for GS 8 L transfers and the image height
// from which Print switches from GS v 0 to GS 8 L.
const GS8LMaxY = 831

// Mode selects the ESC/POS raster command family.
type Mode string

const (
	BitImage Mode = "bitImage" // GS v 0
	Graphics Mode = "graphics" // GS 8 L + GS ( L
)

type Converter struct {
	// The maximum line width of the printer, in dots
	MaxWidth int

	// The threshold between white and black dots, 0..1 of full luma
	Threshold float64
}

// Print converts img and hands the packed rows to target.
func (c *Converter) Print(img image.Image, target Target) error {
	sz := img.Bounds().Size()
	if sz.X == 0 || sz.Y == 0 {
		return fmt.Errorf("raster: empty image %v", sz)
	}
	logInternal.Debugf("raster: size %dx%d", sz.X, sz.Y)

	data, rw, bw := c.ToRaster(img)

	mode := BitImage
	if sz.Y >= GS8LMaxY {
		mode = Graphics
	}

	return target.Raster(rw, sz.Y, bw, data, mode)
}

// ToRaster packs img into rows of bytesWidth bytes, most significant bit
// leftmost, a set bit meaning a black dot.
func (c *Converter) ToRaster(img image.Image) (data []byte, imageWidth, bytesWidth int) {
	b := img.Bounds()
	sz := b.Size()

	imageWidth = sz.X
	if c.MaxWidth > 0 && imageWidth > c.MaxWidth {
		// truncate if image is too large
		imageWidth = c.MaxWidth
	}

	bytesWidth = (imageWidth + 7) / 8
	data = make([]byte, bytesWidth*sz.Y)

	for y := 0; y < sz.Y; y++ {
		for x := 0; x < imageWidth; x++ {
			if lightness(img.At(b.Min.X+x, b.Min.Y+y)) <= c.Threshold {
				data[y*bytesWidth+x/8] |= 0x80 >> uint(x%8)
			}
		}
	}

	return
}

const lumR, lumG, lumB = 55, 182, 18

// lightness returns the luma of c composited over white paper.
func lightness(c color.Color) float64 {
	r, g, b, a := c.RGBA()
	paper := 0xffff - a
	r, g, b = r+paper, g+paper, b+paper

	return float64(lumR*r+lumG*g+lumB*b) / float64(0xffff*(lumR+lumG+lumB))
}
