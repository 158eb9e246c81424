package landscape

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidStyle is returned for a non-positive font size or negative spacing.
	ErrInvalidStyle = errors.New("landscape: invalid style")
	// ErrCanvasTooLarge is returned when the portrait canvas cannot be allocated.
	ErrCanvasTooLarge = errors.New("landscape: canvas too large")
)

const (
	DefaultFontSize    = 30
	DefaultLineSpacing = 10

	// Padding is added once to each canvas dimension: 20 on each side.
	Padding = 40
	// Inset is where drawing starts, both horizontally and vertically.
	Inset = Padding / 2
	// EmptyWidth is the canvas width when no line has measurable text.
	EmptyWidth = 200
)

// Rotation is the quarter turn applied to the portrait canvas.
type Rotation int

const (
	// CounterClockwise turns the top edge into the left edge, so the first
	// line is printed nearest the leading edge of the tape.
	CounterClockwise Rotation = iota
	// Clockwise turns the top edge into the right edge.
	Clockwise
)

func (r Rotation) String() string {
	switch r {
	case CounterClockwise:
		return "ccw"
	case Clockwise:
		return "cw"
	}
	return fmt.Sprintf("Rotation(%d)", int(r))
}

// ParseRotation accepts "ccw" and "cw".
func ParseRotation(s string) (Rotation, error) {
	switch s {
	case "ccw", "":
		return CounterClockwise, nil
	case "cw":
		return Clockwise, nil
	}
	return 0, fmt.Errorf("%w: rotation %q, want ccw or cw", ErrInvalidStyle, s)
}

// Style holds the text parameters of one render.
type Style struct {
	FontSize    int
	LineSpacing int
	Rotation    Rotation
}

// DefaultStyle returns font size 30, spacing 10, counter-clockwise.
func DefaultStyle() Style {
	return Style{
		FontSize:    DefaultFontSize,
		LineSpacing: DefaultLineSpacing,
		Rotation:    CounterClockwise,
	}
}

// Validate reports whether s can be rendered.
func (s Style) Validate() error {
	if s.FontSize <= 0 {
		return fmt.Errorf("%w: font size %d must be positive", ErrInvalidStyle, s.FontSize)
	}
	if s.LineSpacing < 0 {
		return fmt.Errorf("%w: line spacing %d must not be negative", ErrInvalidStyle, s.LineSpacing)
	}
	if s.Rotation != CounterClockwise && s.Rotation != Clockwise {
		return fmt.Errorf("%w: %v", ErrInvalidStyle, s.Rotation)
	}
	return nil
}
