package landscape

import (
	"golang.org/x/image/font"
)

// BBox is the pixel extent of a string relative to its drawing origin on the
// baseline: Top is negative above the baseline.
type BBox struct {
	Left, Top, Right, Bottom int
}

func (b BBox) Width() int  { return b.Right - b.Left }
func (b BBox) Height() int { return b.Bottom - b.Top }

// Measure returns the box covering both the ink of s and its advance, so
// trailing spaces still count towards the width.
func Measure(face font.Face, s string) BBox {
	bounds, advance := font.BoundString(face, s)
	b := BBox{
		Left:   bounds.Min.X.Floor(),
		Top:    bounds.Min.Y.Floor(),
		Right:  bounds.Max.X.Ceil(),
		Bottom: bounds.Max.Y.Ceil(),
	}
	if b.Left > 0 {
		b.Left = 0
	}
	if a := advance.Ceil(); a > b.Right {
		b.Right = a
	}
	return b
}
