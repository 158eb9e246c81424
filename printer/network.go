package printer

import (
	"fmt"
	"net"
	"time"

	logInternal "github.com/AlexStarov/escpos-landscape/log"
)

const (
	// DefaultPort is the raw ("JetDirect") printing port.
	DefaultPort = "9100"
	// LPDPort is the line printer daemon port; jobs to it are spooled.
	LPDPort = "515"
)

// NewNetworkPrinter dials addr ("host" or "host:port", default port 9100).
func NewNetworkPrinter(addr string, timeout time.Duration) (*Printer, error) {
	if _, _, err := net.SplitHostPort(addr); err != nil {
		addr = net.JoinHostPort(addr, DefaultPort)
	}

	logInternal.Debugf("dialing printer at %s", addr)
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, fmt.Errorf("connect to printer %s: %w", addr, err)
	}

	p, err := NewPrinter(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return p, nil
}
