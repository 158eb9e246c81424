// Package diagnostic prints the printer self-test page: text styles,
// alignment, barcodes, a QR code and a raster image.
package diagnostic

import (
	"context"
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/AlexStarov/escpos-landscape/landscape"
	logInternal "github.com/AlexStarov/escpos-landscape/log"
	"github.com/AlexStarov/escpos-landscape/printer"
)

// Device is the part of *printer.Printer the test page uses.
type Device interface {
	SetAlign(align string) error
	Text(s string) error
	SetBold(on bool) error
	SetFontSize(width, height byte) error
	SetUnderline(v byte) error
	SetReverse(on bool) error
	Barcode(code string, sym printer.Symbology, opts printer.BarcodeOptions) error
	QR(data string, size int, level printer.QRLevel) error
	PrintImageData(img image.Image) error
	Cut() error
}

const (
	Model   = "Rongta RP326"
	QRData  = "https://github.com/python-escpos/python-escpos"
	ruleLen = 32
)

var (
	doubleRule = strings.Repeat("=", ruleLen)
	singleRule = strings.Repeat("-", ruleLen)
)

type step struct {
	name string
	run  func(d Device) error
}

// Run prints the test page on d. now is printed in the footer.
func Run(ctx context.Context, d Device, now time.Time) error {
	steps := []step{
		{"header", header},
		{"text styles", textStyles},
		{"alignment", alignment},
		{"barcodes", barcodes},
		{"qr code", qrCode},
		{"image", testImage},
		{"footer", func(d Device) error { return footer(d, now) }},
		{"cut", func(d Device) error { return d.Cut() }},
	}
	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		logInternal.Debugf("diagnostic: %s", s.name)
		if err := s.run(d); err != nil {
			return fmt.Errorf("diagnostic %s: %w", s.name, err)
		}
	}
	return nil
}

// seq runs fns in order and stops at the first error.
func seq(fns ...func() error) error {
	for _, fn := range fns {
		if err := fn(); err != nil {
			return err
		}
	}
	return nil
}

func text(d Device, s string) func() error { return func() error { return d.Text(s) } }

func align(d Device, a string) func() error { return func() error { return d.SetAlign(a) } }

func section(d Device, title string) func() error {
	return func() error { return d.Text(title + "\n" + singleRule + "\n") }
}

func header(d Device) error {
	return seq(
		align(d, "center"),
		text(d, "RECEIPT PRINTER TEST\n"),
		text(d, Model+"\n"),
		text(d, doubleRule+"\n\n"),
	)
}

func textStyles(d Device) error {
	err := seq(
		align(d, "left"),
		section(d, "BASIC TEXT STYLES"),
		text(d, "Normal text\n"),

		func() error { return d.SetBold(true) },
		text(d, "Bold text\n"),
		func() error { return d.SetBold(false) },

		func() error { return d.SetFontSize(1, 2) },
		text(d, "Double height\n"),
		func() error { return d.SetFontSize(2, 1) },
		text(d, "Double width\n"),
		func() error { return d.SetFontSize(1, 1) },

		func() error { return d.SetUnderline(1) },
		text(d, "Underlined text\n"),
		func() error { return d.SetUnderline(0) },
	)
	if err != nil {
		return err
	}

	// не все принтеры умеют GS B
	if err := d.SetReverse(true); err != nil {
		logInternal.Warnf("reverse printing: %v", err)
		return d.Text("Inverted colors not supported\n\n")
	}
	return seq(
		text(d, "Inverted colors\n"),
		func() error { return d.SetReverse(false) },
		text(d, "\n"),
	)
}

func alignment(d Device) error {
	return seq(
		section(d, "ALIGNMENT DEMO"),
		align(d, "left"),
		text(d, "Left aligned\n"),
		align(d, "center"),
		text(d, "Center aligned\n"),
		align(d, "right"),
		text(d, "Right aligned\n"),
		align(d, "left"),
		text(d, "\n"),
	)
}

func barcodes(d Device) error {
	opts := printer.DefaultBarcodeOptions()
	opts.Height, opts.Width = 100, 2
	return seq(
		section(d, "BARCODE DEMO"),
		align(d, "center"),
		func() error { return d.Barcode("123456789", printer.CODE39, opts) },
		text(d, "\nCODE39: 123456789\n\n"),
		func() error { return d.Barcode("5901234123457", printer.EAN13, opts) },
		text(d, "\nEAN13: 5901234123457\n\n"),
		align(d, "left"),
	)
}

func qrCode(d Device) error {
	return seq(
		section(d, "QR CODE DEMO"),
		align(d, "center"),
		func() error { return d.QR(QRData, 8, printer.QRLevelL) },
		text(d, "\nQR: python-escpos GitHub\n\n"),
	)
}

func testImage(d Device) error {
	return seq(
		section(d, "IMAGE DEMO"),
		align(d, "center"),
		func() error { return d.PrintImageData(TestImage()) },
		text(d, "\nTest Image\n\n"),
	)
}

func footer(d Device, now time.Time) error {
	return seq(
		align(d, "center"),
		text(d, doubleRule+"\n"),
		text(d, "Test completed at\n"),
		text(d, now.Format(time.DateTime)+"\n"),
		text(d, "Thank you!\n\n\n\n"),
	)
}

// imageFonts is tried in order for the test image caption.
var imageFonts = []landscape.FaceLoader{landscape.SystemFont("Arial"), landscape.BundledFont()}
