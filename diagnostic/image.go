package diagnostic

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/AlexStarov/escpos-landscape/landscape"
)

const (
	ImageWidth  = 400
	ImageHeight = 200
	outline     = 5

	// kappa places cubic control points for a quarter ellipse.
	kappa = 0.5522847498
)

var (
	frameRect   = image.Rect(20, 50, 381, 151)
	ellipseRect = image.Rect(50, 70, 351, 131)
)

// TestImage draws the caption, a frame and an ellipse outline on white.
func TestImage() *image.NRGBA {
	img := imaging.New(ImageWidth, ImageHeight, color.White)

	face, _ := landscape.ResolveFace(30, imageFonts...)
	defer face.Close()
	d := &font.Drawer{
		Dst:  img,
		Src:  image.Black,
		Face: face,
		Dot:  fixed.P(10, 10+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString("Image Test")

	z := vector.NewRasterizer(ImageWidth, ImageHeight)
	rectPath(z, frameRect, false)
	rectPath(z, frameRect.Inset(outline), true)
	ellipsePath(z, ellipseRect, false)
	ellipsePath(z, ellipseRect.Inset(outline), true)
	z.Draw(img, img.Bounds(), image.Black, image.Point{})

	return img
}

// Outer and inner contours wind in opposite directions, so the area between
// them is filled and the hole is not.

func rectPath(z *vector.Rasterizer, r image.Rectangle, reverse bool) {
	x0, y0, x1, y1 := float32(r.Min.X), float32(r.Min.Y), float32(r.Max.X), float32(r.Max.Y)
	z.MoveTo(x0, y0)
	if reverse {
		z.LineTo(x0, y1)
		z.LineTo(x1, y1)
		z.LineTo(x1, y0)
	} else {
		z.LineTo(x1, y0)
		z.LineTo(x1, y1)
		z.LineTo(x0, y1)
	}
	z.ClosePath()
}

func ellipsePath(z *vector.Rasterizer, r image.Rectangle, reverse bool) {
	cx := float32(r.Min.X+r.Max.X) / 2
	cy := float32(r.Min.Y+r.Max.Y) / 2
	rx := float32(r.Dx()) / 2
	ry := float32(r.Dy()) / 2
	kx, ky := rx*kappa, ry*kappa

	sy := float32(1)
	if reverse {
		sy = -1
	}
	// four quarter arcs starting at the right-hand vertex
	z.MoveTo(cx+rx, cy)
	z.CubeTo(cx+rx, cy+sy*ky, cx+kx, cy+sy*ry, cx, cy+sy*ry)
	z.CubeTo(cx-kx, cy+sy*ry, cx-rx, cy+sy*ky, cx-rx, cy)
	z.CubeTo(cx-rx, cy-sy*ky, cx-kx, cy-sy*ry, cx, cy-sy*ry)
	z.CubeTo(cx+kx, cy-sy*ry, cx+rx, cy-sy*ky, cx+rx, cy)
	z.ClosePath()
}
