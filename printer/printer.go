package printer

import (
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/encoding"

	logInternal "github.com/AlexStarov/escpos-landscape/log"
)

var (
	ErrUnsupported    = errors.New("printer: unsupported")
	ErrInvalidBarcode = errors.New("printer: invalid barcode")
	ErrInvalidQR      = errors.New("printer: invalid qr code")
)

// Printer wraps sending ESC-POS commands to a Transport.
type Printer struct {
	t Transport

	// font metrics
	width, height byte

	// state toggles ESC[char]
	underline  byte
	emphasize  byte
	bold       byte
	upsidedown byte
	rotate     byte

	// state toggles GS[char]
	reverse, smooth byte

	// text encoding for Text
	codePage CodePage
	encoder  *encoding.Encoder

	// MaxWidth is the printable width in dots used when rasterising images.
	MaxWidth int

	sync.Mutex
}

// NewPrinter creates a new printer using the specified connection. Network
// connections to port 515 are spooled through LPD, everything else is raw.
func NewPrinter(w io.ReadWriter) (*Printer, error) {
	if w == nil {
		return nil, errors.New("printer: nil connection")
	}

	var transport Transport
	if conn, ok := w.(net.Conn); ok && strings.HasSuffix(conn.RemoteAddr().String(), ":515") {
		transport = NewLPDTransport(conn, "lp")
	} else if rc, ok := w.(io.ReadWriteCloser); ok {
		transport = &RawTransport{conn: rc}
	} else {
		transport = &RawTransport{conn: nopCloser{w}}
	}

	return newPrinter(transport), nil
}

func newPrinter(t Transport) *Printer {
	p := &Printer{
		t:        t,
		width:    1,
		height:   1,
		MaxWidth: DefaultMaxWidth,
	}
	p.codePage = CP437
	p.encoder = CP437.encoding().NewEncoder()
	return p
}

// ReadStatus asks for the online status (DLE EOT 1) and reports whether the
// printer answered online.
func (p *Printer) ReadStatus(wait time.Duration) (bool, error) {
	if err := p.send([]byte{0x10, 0x04, 0x01}); err != nil {
		return false, err
	}
	time.Sleep(wait)
	buf := make([]byte, 1)
	n, err := p.t.Read(buf)
	if err != nil {
		return false, fmt.Errorf("read status: %w", err)
	}
	if n == 0 {
		return false, nil
	}
	const maskOffline = 0x08
	return buf[0]&maskOffline == 0, nil
}

// Reset resets the local style state without talking to the printer.
func (p *Printer) Reset() {
	p.width = 1
	p.height = 1

	p.underline = 0
	p.emphasize = 0
	p.bold = 0
	p.upsidedown = 0
	p.rotate = 0

	p.reverse = 0
	p.smooth = 0
}

// Close flushes and closes the transport.
func (p *Printer) Close() error {
	return p.t.Close()
}

// Write writes buf to printer.
func (p *Printer) Write(buf []byte) (int, error) {
	return p.t.Write(buf)
}

func (p *Printer) send(buf []byte) error {
	if _, err := p.t.Write(buf); err != nil {
		return fmt.Errorf("printer write: %w", err)
	}
	return nil
}

// Init resets the state of the printer, and writes the initialize code.
func (p *Printer) Init() error {
	p.Reset()
	return p.send([]byte("\x1B@")) // ESC @
}

// End terminates the printer session.
func (p *Printer) End() error {
	return p.send([]byte("\xFA"))
}

// Cut writes the partial cut code (GS V A 0) to the printer.
func (p *Printer) Cut() error {
	return p.send([]byte("\x1DVA0"))
}

// Cash writes the cash drawer code to the printer.
func (p *Printer) Cash() error {
	return p.send([]byte("\x1B\x70\x00\x0A\xFF"))
}

// Linefeed writes a line end to the printer.
func (p *Printer) Linefeed() error {
	return p.send([]byte("\n"))
}

// FormfeedN prints and feeds n lines (ESC d n).
func (p *Printer) FormfeedN(n int) error {
	if n < 0 || n > 255 {
		return fmt.Errorf("formfeed: %d lines out of range", n)
	}
	return p.send([]byte{0x1b, 'd', byte(n)})
}

// Formfeed writes 1 formfeed to the printer.
func (p *Printer) Formfeed() error {
	return p.FormfeedN(1)
}

// SendFontSize sends the character size command (GS !).
func (p *Printer) SendFontSize() error {
	return p.send([]byte{0x1d, '!', ((p.width - 1) << 4) | (p.height - 1)})
}

// SetFontSize sets the character magnification, 1..8 in each direction.
func (p *Printer) SetFontSize(width, height byte) error {
	if width == 0 || height == 0 || width > 8 || height > 8 {
		return fmt.Errorf("invalid font size %d x %d", width, height)
	}
	p.width, p.height = width, height
	return p.SendFontSize()
}

func (p *Printer) SendUnderline() error  { return p.send([]byte{0x1b, '-', p.underline}) }
func (p *Printer) SendEmphasize() error  { return p.send([]byte{0x1b, 'G', p.emphasize}) }
func (p *Printer) SendBold() error       { return p.send([]byte{0x1b, 'E', p.bold}) }
func (p *Printer) SendUpsidedown() error { return p.send([]byte{0x1b, '{', p.upsidedown}) }
func (p *Printer) SendRotate() error     { return p.send([]byte{0x1b, 'R', p.rotate}) }
func (p *Printer) SendReverse() error    { return p.send([]byte{0x1d, 'B', p.reverse}) }
func (p *Printer) SendSmooth() error     { return p.send([]byte{0x1d, 'b', p.smooth}) }

// SendMoveX sends the absolute horizontal position (ESC $).
func (p *Printer) SendMoveX(x uint16) error {
	return p.send([]byte{0x1b, 0x24, byte(x % 256), byte(x / 256)})
}

// SendMoveY sends the absolute vertical position (GS $).
func (p *Printer) SendMoveY(y uint16) error {
	return p.send([]byte{0x1d, 0x24, byte(y % 256), byte(y / 256)})
}

// SetUnderline sets underline thickness 0..2.
func (p *Printer) SetUnderline(v byte) error {
	if v > 2 {
		return fmt.Errorf("invalid underline %d", v)
	}
	p.underline = v
	return p.SendUnderline()
}

func (p *Printer) SetEmphasize(on bool) error {
	p.emphasize = boolByte(on)
	return p.SendEmphasize()
}

func (p *Printer) SetBold(on bool) error {
	p.bold = boolByte(on)
	return p.SendBold()
}

func (p *Printer) SetUpsidedown(on bool) error {
	p.upsidedown = boolByte(on)
	return p.SendUpsidedown()
}

// SetRotate turns 90 degree clockwise character rotation on or off.
func (p *Printer) SetRotate(on bool) error {
	p.rotate = boolByte(on)
	return p.SendRotate()
}

// SetReverse toggles white-on-black printing.
func (p *Printer) SetReverse(on bool) error {
	p.reverse = boolByte(on)
	return p.SendReverse()
}

func (p *Printer) SetSmooth(on bool) error {
	p.smooth = boolByte(on)
	return p.SendSmooth()
}

// Pulse sends the pulse (open drawer) code to the printer.
func (p *Printer) Pulse() error {
	// with t=2 -- meaning 2*2msec
	return p.send([]byte("\x1Bp\x02"))
}

// SetAlign sets the justification: "left", "center" or "right".
func (p *Printer) SetAlign(align string) error {
	var a byte
	switch align {
	case "left":
		a = 0
	case "center":
		a = 1
	case "right":
		a = 2
	default:
		return fmt.Errorf("invalid alignment %q", align)
	}
	return p.send([]byte{0x1b, 'a', a})
}

// Feed feeds the printer, applying the supplied params as necessary, and
// restores the default text style.
func (p *Printer) Feed(params map[string]string) error {
	// handle lines (form feed X lines)
	if l, ok := params["line"]; ok {
		i, err := strconv.Atoi(l)
		if err != nil {
			return fmt.Errorf("feed line %q: %w", l, err)
		}
		if err := p.FormfeedN(i); err != nil {
			return err
		}
	}

	// handle units (dots)
	if u, ok := params["unit"]; ok {
		i, err := strconv.Atoi(u)
		if err != nil {
			return fmt.Errorf("feed unit %q: %w", u, err)
		}
		if err := p.SendMoveY(uint16(i)); err != nil {
			return err
		}
	}

	if err := p.Linefeed(); err != nil {
		return err
	}

	p.Reset()

	for _, send := range []func() error{
		p.SendEmphasize,
		p.SendBold,
		p.SendRotate,
		p.SendSmooth,
		p.SendReverse,
		p.SendUnderline,
		p.SendUpsidedown,
		p.SendFontSize,
	} {
		if err := send(); err != nil {
			return err
		}
	}
	return nil
}

// FeedAndCut feeds the printer using the supplied params and then sends a cut
// command.
func (p *Printer) FeedAndCut(params map[string]string) error {
	if t, ok := params["type"]; ok && t == "feed" {
		if err := p.Formfeed(); err != nil {
			return err
		}
	}
	return p.Cut()
}

// WriteNode executes a named node ("feed", "cut", "pulse", "text", "image").
func (p *Printer) WriteNode(name string, params map[string]string, data string) error {
	cstr := ""
	if data != "" {
		str := data
		if len(data) > 40 {
			str = fmt.Sprintf("%s ...", data[0:40])
		}
		cstr = fmt.Sprintf(" => '%s'", str)
	}
	logInternal.Debugf("Write: %s => %+v%s", name, params, cstr)

	switch name {
	case "feed":
		return p.Feed(params)
	case "cut":
		return p.FeedAndCut(params)
	case "pulse":
		return p.Pulse()
	case "text":
		return p.Text(data)
	case "image":
		return p.Image(params, data)
	}
	return fmt.Errorf("%w: node %q", ErrUnsupported, name)
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
