package printer

import (
	"fmt"
	"strings"
)

// Symbology is a GS k function B barcode system.
type Symbology byte

const (
	UPCA    Symbology = 65
	UPCE    Symbology = 66
	EAN13   Symbology = 67
	EAN8    Symbology = 68
	CODE39  Symbology = 69
	ITF     Symbology = 70
	CODABAR Symbology = 71
	CODE93  Symbology = 72
	CODE128 Symbology = 73
)

var symbologyNames = map[string]Symbology{
	"UPC-A":   UPCA,
	"UPC-E":   UPCE,
	"EAN13":   EAN13,
	"EAN8":    EAN8,
	"CODE39":  CODE39,
	"ITF":     ITF,
	"CODABAR": CODABAR,
	"NW7":     CODABAR,
	"CODE93":  CODE93,
	"CODE128": CODE128,
}

// ParseSymbology maps names such as "EAN13" or "code39" to a Symbology.
func ParseSymbology(name string) (Symbology, error) {
	if s, ok := symbologyNames[strings.ToUpper(name)]; ok {
		return s, nil
	}
	return 0, fmt.Errorf("%w: unknown symbology %q", ErrInvalidBarcode, name)
}

// HRIPosition places the human readable digits relative to the bars.
type HRIPosition byte

const (
	HRINone HRIPosition = iota
	HRIAbove
	HRIBelow
	HRIBoth
)

// BarcodeOptions mirrors the printer's barcode setup commands.
type BarcodeOptions struct {
	Height   int // dots, 1..255
	Width    int // module width, 2..6
	Position HRIPosition
	FontB    bool // HRI font B instead of A
}

// DefaultBarcodeOptions matches the usual receipt printer defaults.
func DefaultBarcodeOptions() BarcodeOptions {
	return BarcodeOptions{Height: 64, Width: 3, Position: HRIBelow}
}

// Barcode validates code for sym and prints it with GS k function B.
func (p *Printer) Barcode(code string, sym Symbology, opts BarcodeOptions) error {
	if opts.Height < 1 || opts.Height > 255 {
		return fmt.Errorf("%w: height %d out of 1..255", ErrInvalidBarcode, opts.Height)
	}
	if opts.Width < 2 || opts.Width > 6 {
		return fmt.Errorf("%w: width %d out of 2..6", ErrInvalidBarcode, opts.Width)
	}
	if opts.Position > HRIBoth {
		return fmt.Errorf("%w: hri position %d", ErrInvalidBarcode, opts.Position)
	}

	data, err := barcodeData(code, sym)
	if err != nil {
		return err
	}

	cmd := []byte{
		0x1d, 'h', byte(opts.Height),
		0x1d, 'w', byte(opts.Width),
		0x1d, 'H', byte(opts.Position),
		0x1d, 'f', boolByte(opts.FontB),
		0x1d, 'k', byte(sym), byte(len(data)),
	}
	return p.send(append(cmd, data...))
}

func barcodeData(code string, sym Symbology) ([]byte, error) {
	digitsIn := func(lengths ...int) error {
		if !allIn(code, "0123456789") {
			return fmt.Errorf("%w: %s accepts digits only: %q", ErrInvalidBarcode, sym, code)
		}
		for _, l := range lengths {
			if len(code) == l {
				return nil
			}
		}
		return fmt.Errorf("%w: %s length %d not in %v", ErrInvalidBarcode, sym, len(code), lengths)
	}

	var err error
	switch sym {
	case UPCA:
		err = digitsIn(11, 12)
	case UPCE:
		err = digitsIn(6, 7, 8, 11, 12)
	case EAN13:
		err = digitsIn(12, 13)
	case EAN8:
		err = digitsIn(7, 8)
	case ITF:
		if !allIn(code, "0123456789") || len(code) < 2 || len(code)%2 != 0 {
			err = fmt.Errorf("%w: ITF needs an even number of digits: %q", ErrInvalidBarcode, code)
		}
	case CODE39:
		if !allIn(code, "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ $%*+-./") {
			err = fmt.Errorf("%w: invalid CODE39 data %q", ErrInvalidBarcode, code)
		}
	case CODABAR:
		if !allIn(code, "0123456789ABCDabcd$+-./:") {
			err = fmt.Errorf("%w: invalid CODABAR data %q", ErrInvalidBarcode, code)
		}
	case CODE93:
		if !allIn(code, asciiChars) {
			err = fmt.Errorf("%w: CODE93 accepts ASCII only: %q", ErrInvalidBarcode, code)
		}
	case CODE128:
		if !allIn(code, asciiChars) {
			err = fmt.Errorf("%w: CODE128 accepts ASCII only: %q", ErrInvalidBarcode, code)
		}
		// function B expects a code set selector; default to set B
		if !strings.HasPrefix(code, "{") {
			code = "{B" + code
		}
	default:
		err = fmt.Errorf("%w: unknown symbology %d", ErrInvalidBarcode, byte(sym))
	}
	if err != nil {
		return nil, err
	}

	if len(code) == 0 || len(code) > 255 {
		return nil, fmt.Errorf("%w: %s data length %d out of 1..255", ErrInvalidBarcode, sym, len(code))
	}
	return []byte(code), nil
}

var asciiChars = func() string {
	var b strings.Builder
	for c := 0; c < 128; c++ {
		b.WriteByte(byte(c))
	}
	return b.String()
}()

func allIn(s, set string) bool {
	for _, r := range s {
		if !strings.ContainsRune(set, r) {
			return false
		}
	}
	return true
}

func (s Symbology) String() string {
	for name, v := range symbologyNames {
		if v == s && name != "NW7" {
			return name
		}
	}
	return fmt.Sprintf("Symbology(%d)", byte(s))
}
