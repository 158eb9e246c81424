package raster

import (
	"fmt"

	"github.com/AlexStarov/escpos-landscape/util"
)

// Frames wraps packed rows into printer commands. width is in dots, bytesWidth
// is the packed row length and data holds height rows.
func Frames(width, height, bytesWidth int, data []byte, mode Mode) ([][]byte, error) {
	if len(data) < height*bytesWidth {
		return nil, fmt.Errorf("raster: %d bytes for %d rows of %d", len(data), height, bytesWidth)
	}

	switch mode {
	case BitImage:
		// GS v 0 m xL xH yL yH d1...dk
		xb, err := util.IntLowHigh(bytesWidth, 2)
		if err != nil {
			return nil, err
		}
		yb, err := util.IntLowHigh(height, 2)
		if err != nil {
			return nil, err
		}
		frame := make([]byte, 0, 8+height*bytesWidth)
		frame = append(frame, 0x1d, 0x76, 0x30, 0x00)
		frame = append(frame, xb...)
		frame = append(frame, yb...)
		frame = append(frame, data[:height*bytesWidth]...)
		return [][]byte{frame}, nil

	case Graphics:
		var frames [][]byte
		for l := 0; l < height; {
			lines := GS8LMaxY
			if lines > height-l {
				lines = height - l
			}
			block := data[l*bytesWidth : (l+lines)*bytesWidth]

			f112P := 10 + len(block)
			frame := []byte{
				0x1d, 0x38, 0x4c, // GS 8 L, store graphics data (raster format)
				byte(f112P), byte(f112P >> 8), byte(f112P >> 16), byte(f112P >> 24), // p1 p2 p3 p4
				0x30, 0x70, 0x30, // function 112
				0x01, 0x01, // bx, by -- zoom
				0x31,                          // c -- single-color printing model
				byte(width), byte(width >> 8), // xl, xh -- dots in the horizontal direction
				byte(lines), byte(lines >> 8), // yl, yh -- dots in the vertical direction
			}
			frame = append(frame, block...)
			frames = append(frames, frame,
				[]byte{0x1d, 0x28, 0x4c, 0x02, 0x00, 0x30, 0x32}, // GS ( L fn 50: print buffered graphics
			)
			l += lines
		}
		return frames, nil
	}
	return nil, fmt.Errorf("raster: unknown mode %q", mode)
}
