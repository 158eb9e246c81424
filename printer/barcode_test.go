package printer

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBarcode(t *testing.T) {
	p, buf := newBufferPrinter(t)
	opts := BarcodeOptions{Height: 100, Width: 2, Position: HRIBelow}
	if err := p.Barcode("5901234123457", EAN13, opts); err != nil {
		t.Fatalf("Barcode: %v", err)
	}
	want := append([]byte{
		0x1d, 'h', 100,
		0x1d, 'w', 2,
		0x1d, 'H', 2,
		0x1d, 'f', 0,
		0x1d, 'k', 67, 13,
	}, "5901234123457"...)
	if d := cmp.Diff(want, buf.Bytes()); d != "" {
		t.Errorf("mismatch (-want +got):\n%s", d)
	}
}

func TestBarcodeCode128AddsCodeSet(t *testing.T) {
	p, buf := newBufferPrinter(t)
	if err := p.Barcode("abc", CODE128, DefaultBarcodeOptions()); err != nil {
		t.Fatal(err)
	}
	got := buf.Bytes()
	if d := cmp.Diff([]byte{73, 5, '{', 'B', 'a', 'b', 'c'}, got[len(got)-7:]); d != "" {
		t.Errorf("mismatch (-want +got):\n%s", d)
	}
}

func TestBarcodeValidation(t *testing.T) {
	opts := DefaultBarcodeOptions()
	tests := []struct {
		code string
		sym  Symbology
		opts BarcodeOptions
	}{
		{"12345", EAN13, opts},
		{"59012341234a", EAN13, opts},
		{"123", EAN8, opts},
		{"abc", CODE39, opts},
		{"123", ITF, opts},
		{"", CODE93, opts},
		{"123456789", CODE39, BarcodeOptions{Height: 0, Width: 2}},
		{"123456789", CODE39, BarcodeOptions{Height: 10, Width: 7}},
		{"123", Symbology(1), opts},
	}
	for _, tt := range tests {
		p, buf := newBufferPrinter(t)
		err := p.Barcode(tt.code, tt.sym, tt.opts)
		if !errors.Is(err, ErrInvalidBarcode) {
			t.Errorf("Barcode(%q, %v) error = %v, want ErrInvalidBarcode", tt.code, tt.sym, err)
		}
		if buf.Len() != 0 {
			t.Errorf("Barcode(%q, %v) wrote %x", tt.code, tt.sym, buf.Bytes())
		}
	}
}

func TestParseSymbology(t *testing.T) {
	for name, want := range map[string]Symbology{"code39": CODE39, "EAN13": EAN13, "nw7": CODABAR} {
		got, err := ParseSymbology(name)
		if err != nil || got != want {
			t.Errorf("ParseSymbology(%q) = %v, %v; want %v", name, got, err, want)
		}
	}
	if _, err := ParseSymbology("PDF417"); !errors.Is(err, ErrInvalidBarcode) {
		t.Errorf("ParseSymbology(PDF417) error = %v", err)
	}
}
