package diagnostic

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/AlexStarov/escpos-landscape/printer"
)

var _ Device = (*printer.Printer)(nil)

var testTime = time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)

type recorder struct {
	calls  []string
	failOn string
	err    error
}

func (r *recorder) do(call string) error {
	r.calls = append(r.calls, call)
	if r.failOn != "" && strings.HasPrefix(call, r.failOn) {
		return r.err
	}
	return nil
}

func (r *recorder) SetAlign(a string) error { return r.do("align " + a) }
func (r *recorder) Text(s string) error { return r.do("text " + s) }
func (r *recorder) SetBold(on bool) error { return r.do(fmt.Sprint("bold ", on)) }
func (r *recorder) SetFontSize(w, h byte) error { return r.do(fmt.Sprintf("size %dx%d", w, h)) }
func (r *recorder) SetUnderline(v byte) error { return r.do(fmt.Sprint("underline ", v)) }
func (r *recorder) SetReverse(on bool) error { return r.do(fmt.Sprint("reverse ", on)) }
func (r *recorder) PrintImageData(image.Image) error { return r.do("image") }
func (r *recorder) Cut() error { return r.do("cut") }

func (r *recorder) Barcode(code string, sym printer.Symbology, opts printer.BarcodeOptions) error {
	return r.do(fmt.Sprintf("barcode %s %s h%d w%d", sym, code, opts.Height, opts.Width))
}

func (r *recorder) QR(data string, size int, _ printer.QRLevel) error {
	return r.do(fmt.Sprintf("qr %s %d", data, size))
}

func TestRunSequence(t *testing.T) {
	r := &recorder{}
	if err := Run(context.Background(), r, testTime); err != nil {
		t.Fatal(err)
	}

	want := []string{
		"align center",
		"text RECEIPT PRINTER TEST\n",
		"text Rongta RP326\n",
		"text " + doubleRule + "\n\n",

		"align left",
		"text BASIC TEXT STYLES\n" + singleRule + "\n",
		"text Normal text\n",
		"bold true", "text Bold text\n", "bold false",
		"size 1x2", "text Double height\n",
		"size 2x1", "text Double width\n",
		"size 1x1",
		"underline 1", "text Underlined text\n", "underline 0",
		"reverse true", "text Inverted colors\n", "reverse false",
		"text \n",

		"text ALIGNMENT DEMO\n" + singleRule + "\n",
		"align left", "text Left aligned\n",
		"align center", "text Center aligned\n",
		"align right", "text Right aligned\n",
		"align left", "text \n",

		"text BARCODE DEMO\n" + singleRule + "\n",
		"align center",
		"barcode CODE39 123456789 h100 w2",
		"text \nCODE39: 123456789\n\n",
		"barcode EAN13 5901234123457 h100 w2",
		"text \nEAN13: 5901234123457\n\n",
		"align left",

		"text QR CODE DEMO\n" + singleRule + "\n",
		"align center",
		"qr " + QRData + " 8",
		"text \nQR: python-escpos GitHub\n\n",

		"text IMAGE DEMO\n" + singleRule + "\n",
		"align center",
		"image",
		"text \nTest Image\n\n",

		"align center",
		"text " + doubleRule + "\n",
		"text Test completed at\n",
		"text 2024-03-05 14:07:09\n",
		"text Thank you!\n\n\n\n",
		"cut",
	}
	if d := cmp.Diff(want, r.calls); d != "" {
		t.Errorf("calls (-want +got):\n%s", d)
	}
}

func TestRunStepErrors(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		failOn string
		step   string
	}{
		{"text RECEIPT", "header"},
		{"bold", "text styles"},
		{"align right", "alignment"},
		{"barcode EAN13", "barcodes"},
		{"qr", "qr code"},
		{"image", "image"},
		{"text Thank", "footer"},
		{"cut", "cut"},
	}
	for _, tt := range tests {
		t.Run(tt.step, func(t *testing.T) {
			r := &recorder{failOn: tt.failOn, err: boom}
			err := Run(context.Background(), r, testTime)
			if !errors.Is(err, boom) {
				t.Fatalf("error = %v, want boom", err)
			}
			if !strings.Contains(err.Error(), tt.step) {
				t.Errorf("error %q does not name step %q", err, tt.step)
			}
			if last := r.calls[len(r.calls)-1]; !strings.HasPrefix(last, tt.failOn) {
				t.Errorf("continued after failure, last call %q", last)
			}
		})
	}
}

func TestRunReverseUnsupported(t *testing.T) {
	r := &recorder{failOn: "reverse", err: printer.ErrUnsupported}
	if err := Run(context.Background(), r, testTime); err != nil {
		t.Fatal(err)
	}
	var found bool
	for i, c := range r.calls {
		if c == "reverse true" {
			found = r.calls[i+1] == "text Inverted colors not supported\n\n"
		}
	}
	if !found {
		t.Errorf("missing fallback line after reverse failure: %q", r.calls)
	}
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := &recorder{}
	if err := Run(ctx, r, testTime); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if len(r.calls) != 0 {
		t.Errorf("calls after cancel: %q", r.calls)
	}
}

func TestRunOnPrinter(t *testing.T) {
	var buf bytes.Buffer
	p, err := printer.NewPrinter(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if err := Run(context.Background(), p, testTime); err != nil {
		t.Fatal(err)
	}
	out := buf.Bytes()

	for _, want := range [][]byte{
		[]byte("RECEIPT PRINTER TEST\n"),
		append([]byte{0x1d, 'k', byte(printer.CODE39), 9}, "123456789"...),
		append([]byte{0x1d, 'k', byte(printer.EAN13), 13}, "5901234123457"...),
		{0x1d, 0x28, 0x6b, 0x03, 0x00, 0x31, 0x43, 8},
		{0x1d, 'v', '0', 0},
		[]byte("2024-03-05 14:07:09\n"),
	} {
		if !bytes.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if !bytes.HasSuffix(out, []byte("\x1dVA0")) {
		t.Errorf("output does not end with a cut: %q", out[max(0, len(out)-8):])
	}
}

func TestTestImage(t *testing.T) {
	img := TestImage()
	if got := img.Bounds().Size(); got != image.Pt(ImageWidth, ImageHeight) {
		t.Fatalf("size = %v", got)
	}

	ink := func(x, y int) bool { return img.NRGBAAt(x, y).R < 0x80 }
	tests := []struct {
		name string
		p    image.Point
		want bool
	}{
		{"frame left edge", image.Pt(22, 100), true},
		{"frame top edge", image.Pt(200, 52), true},
		{"frame bottom edge", image.Pt(200, 148), true},
		{"inside frame, outside ellipse", image.Pt(35, 100), false},
		{"ellipse left vertex", image.Pt(52, 100), true},
		{"ellipse top", image.Pt(200, 72), true},
		{"ellipse centre", image.Pt(200, 100), false},
		{"outside frame", image.Pt(10, 180), false},
	}
	for _, tt := range tests {
		if got := ink(tt.p.X, tt.p.Y); got != tt.want {
			t.Errorf("%s %v: ink = %v, want %v", tt.name, tt.p, got, tt.want)
		}
	}

	// caption in the top band
	caption := false
	for y := 10; y < 48 && !caption; y++ {
		for x := 10; x < ImageWidth; x++ {
			if ink(x, y) {
				caption = true
				break
			}
		}
	}
	if !caption {
		t.Error("no caption above the frame")
	}
}
