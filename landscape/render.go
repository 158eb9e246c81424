package landscape

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	logInternal "github.com/AlexStarov/escpos-landscape/log"
)

// LineBox is the space one input line takes on the portrait canvas.
type LineBox struct {
	Text   string
	Box    BBox // zero for empty lines
	Width  int
	Height int
}

// Layout is the measured portrait canvas before drawing.
type Layout struct {
	Lines  []LineBox
	Width  int
	Height int
}

// Plan measures lines with face. An empty slice is planned as one empty line.
func Plan(face font.Face, lines []string, style Style) Layout {
	if len(lines) == 0 {
		lines = []string{""}
	}

	l := Layout{Lines: make([]LineBox, 0, len(lines))}
	maxWidth, measured := 0, false
	for _, s := range lines {
		lb := LineBox{Text: s}
		if s == "" {
			lb.Height = style.FontSize
		} else {
			lb.Box = Measure(face, s)
			lb.Width = lb.Box.Width()
			lb.Height = lb.Box.Height() + style.LineSpacing
			maxWidth = max(maxWidth, lb.Width)
			measured = true
		}
		l.Height += lb.Height
		l.Lines = append(l.Lines, lb)
	}

	l.Height += Padding
	if measured {
		l.Width = maxWidth + Padding
	} else {
		l.Width = EmptyWidth
	}
	return l
}

// Renderer draws text with the first face its loaders can produce.
type Renderer struct {
	Loaders []FaceLoader
}

// NewRenderer tries the named system fonts (DefaultFontNames when none are
// given), then the bundled font, then the basic bitmap font.
func NewRenderer(fontNames ...string) *Renderer {
	if len(fontNames) == 0 {
		fontNames = DefaultFontNames
	}
	r := &Renderer{}
	for _, name := range fontNames {
		r.Loaders = append(r.Loaders, SystemFont(name))
	}
	r.Loaders = append(r.Loaders, BundledFont(), BasicFont())
	return r
}

// Face resolves the face used for size.
func (r *Renderer) Face(size int) (font.Face, string) {
	return ResolveFace(float64(size), r.Loaders...)
}

// Render draws lines top to bottom on a white portrait canvas and returns it
// turned a quarter in style.Rotation, so the lines read left to right along
// the tape.
func (r *Renderer) Render(lines []string, style Style) (*image.NRGBA, error) {
	if err := style.Validate(); err != nil {
		return nil, err
	}

	face, name := r.Face(style.FontSize)
	defer face.Close()

	layout := Plan(face, lines, style)
	logInternal.Debugf("landscape: %d lines with %s at %dpx", len(layout.Lines), name, style.FontSize)
	canvas, err := newCanvas(layout.Width, layout.Height)
	if err != nil {
		return nil, err
	}

	d := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(color.Black),
		Face: face,
	}
	y := Inset
	for _, lb := range layout.Lines {
		if lb.Text != "" {
			// put the top of the ink at y and the left edge at the inset
			d.Dot = fixed.P(Inset-lb.Box.Left, y-lb.Box.Top)
			d.DrawString(lb.Text)
		}
		y += lb.Height
	}

	if style.Rotation == Clockwise {
		return imaging.Rotate270(canvas), nil
	}
	return imaging.Rotate90(canvas), nil
}

// Render uses NewRenderer's default font chain.
func Render(lines []string, style Style) (*image.NRGBA, error) {
	return NewRenderer().Render(lines, style)
}

func newCanvas(w, h int) (canvas *image.NRGBA, err error) {
	if w <= 0 || h <= 0 || w > math.MaxInt/4/h {
		return nil, fmt.Errorf("%w: %dx%d", ErrCanvasTooLarge, w, h)
	}
	defer func() {
		if r := recover(); r != nil {
			canvas, err = nil, fmt.Errorf("%w: %dx%d: %v", ErrCanvasTooLarge, w, h, r)
		}
	}()
	return imaging.New(w, h, color.White), nil
}
