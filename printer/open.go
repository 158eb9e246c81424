package printer

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/gousb"
)

// Address is a parsed printer location.
//
//	10.0.0.5, 10.0.0.5:9100, tcp://10.0.0.5:9100  raw TCP
//	lpd://10.0.0.5/lp                             LPD queue (port 515)
//	serial:///dev/ttyUSB0?baud=19200, serial://COM3
//	usb://04b8:0202                               vendor:product, hex
//	spooler://RP326                               Windows spooler
type Address struct {
	Scheme  string
	Host    string // host:port for tcp and lpd
	Queue   string
	Port    string // serial port name
	Baud    int
	Vendor  gousb.ID
	Product gousb.ID
	Name    string // spooler printer name
}

// ParseAddress parses a printer URI or bare host[:port].
func ParseAddress(s string) (Address, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Address{}, fmt.Errorf("empty printer address")
	}
	if name, ok := strings.CutPrefix(s, "spooler://"); ok {
		// printer names may contain spaces, which url.Parse rejects in a host
		if name == "" {
			return Address{}, fmt.Errorf("printer address %q: missing device name", s)
		}
		return Address{Scheme: "spooler", Name: name}, nil
	}
	if !strings.Contains(s, "://") {
		s = "tcp://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return Address{}, fmt.Errorf("printer address %q: %w", s, err)
	}

	a := Address{Scheme: u.Scheme}
	switch u.Scheme {
	case "tcp":
		a.Host = withDefaultPort(u.Host, DefaultPort)
	case "lpd":
		a.Host = withDefaultPort(u.Host, LPDPort)
		a.Queue = strings.Trim(u.Path, "/")
		if a.Queue == "" {
			a.Queue = "lp"
		}
	case "serial":
		a.Port = u.Host + u.Path
		a.Baud = 9600
		if b := u.Query().Get("baud"); b != "" {
			if a.Baud, err = strconv.Atoi(b); err != nil || a.Baud <= 0 {
				return Address{}, fmt.Errorf("printer address %q: invalid baud %q", s, b)
			}
		}
	case "usb":
		vid, pid, ok := strings.Cut(u.Host, ":")
		if !ok {
			return Address{}, fmt.Errorf("printer address %q: want usb://vendor:product", s)
		}
		v, err1 := strconv.ParseUint(strings.TrimPrefix(vid, "0x"), 16, 16)
		p, err2 := strconv.ParseUint(strings.TrimPrefix(pid, "0x"), 16, 16)
		if err1 != nil || err2 != nil {
			return Address{}, fmt.Errorf("printer address %q: invalid usb ids", s)
		}
		a.Vendor, a.Product = gousb.ID(v), gousb.ID(p)
	default:
		return Address{}, fmt.Errorf("%w: printer scheme %q", ErrUnsupported, u.Scheme)
	}

	if (a.Scheme == "tcp" || a.Scheme == "lpd") && strings.HasPrefix(a.Host, ":") {
		return Address{}, fmt.Errorf("printer address %q: missing host", s)
	}
	if a.Scheme == "serial" && a.Port == "" {
		return Address{}, fmt.Errorf("printer address %q: missing device name", s)
	}
	return a, nil
}

// Open connects to the printer at addr.
func Open(addr string, timeout time.Duration) (*Printer, error) {
	a, err := ParseAddress(addr)
	if err != nil {
		return nil, err
	}

	switch a.Scheme {
	case "tcp":
		return NewNetworkPrinter(a.Host, timeout)
	case "lpd":
		conn, err := net.DialTimeout("tcp", a.Host, timeout)
		if err != nil {
			return nil, fmt.Errorf("connect to LPD %s: %w", a.Host, err)
		}
		return newPrinter(NewLPDTransport(conn, a.Queue)), nil
	case "serial":
		return NewSerialPrinter(a.Port, a.Baud)
	case "usb":
		return NewUSBPrinter(a.Vendor, a.Product)
	case "spooler":
		return NewWinPrintSpoolerPrinter(a.Name)
	}
	return nil, fmt.Errorf("%w: printer scheme %q", ErrUnsupported, a.Scheme)
}

func withDefaultPort(host, port string) string {
	if _, _, err := net.SplitHostPort(host); err == nil {
		return host
	}
	return net.JoinHostPort(strings.Trim(host, "[]"), port)
}
