package printer

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"

	logInternal "github.com/AlexStarov/escpos-landscape/log"
	"github.com/AlexStarov/escpos-landscape/raster"
)

// DefaultMaxWidth is the printable width in dots assumed for images.
const DefaultMaxWidth = 512

// PrintImage loads the image at imgPath and prints it at the current alignment.
func (p *Printer) PrintImage(imgPath string) error {
	img, err := imaging.Open(imgPath)
	if err != nil {
		return fmt.Errorf("load image %s: %w", imgPath, err)
	}
	logInternal.Debugf("loaded image %s: %v", imgPath, img.Bounds().Size())
	return p.PrintImageData(img)
}

// PrintImageData prints img, scaling it down to MaxWidth when it is wider.
func (p *Printer) PrintImageData(img image.Image) error {
	if w := img.Bounds().Dx(); p.MaxWidth > 0 && w > p.MaxWidth {
		img = resize.Resize(uint(p.MaxWidth), 0, img, resize.Lanczos3)
		logInternal.Debugf("image scaled from %d to %d dots wide", w, p.MaxWidth)
	}

	conv := &raster.Converter{
		MaxWidth:  p.MaxWidth,
		Threshold: 0.5,
	}
	return conv.Print(img, p)
}

// Raster writes a rasterized version of a black and white image to the printer
// with the specified width, height, and bytesWidth bytes per line.
func (p *Printer) Raster(width, height, bytesWidth int, imgBw []byte, mode raster.Mode) error {
	frames, err := raster.Frames(width, height, bytesWidth, imgBw, mode)
	if err != nil {
		return err
	}
	for _, f := range frames {
		if err := p.send(f); err != nil {
			return err
		}
	}
	return nil
}

// Image prints a base64 encoded PNG, JPEG or GIF; params may carry "align".
func (p *Printer) Image(params map[string]string, data string) error {
	if align, ok := params["align"]; ok {
		if err := p.SetAlign(align); err != nil {
			return err
		}
	}

	dec, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return fmt.Errorf("image node: %w", err)
	}
	img, format, err := image.Decode(bytes.NewReader(dec))
	if err != nil {
		return fmt.Errorf("image node: %w", err)
	}
	logInternal.Debugf("image node: %s, %d bytes, %v", format, len(dec), img.Bounds().Size())

	return p.PrintImageData(img)
}
