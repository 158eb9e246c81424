package printer

import (
	"fmt"

	"github.com/google/gousb"
)

type usbConn struct {
	ctx  *gousb.Context
	dev  *gousb.Device
	cfg  *gousb.Config
	intf *gousb.Interface
	out  *gousb.OutEndpoint
	in   *gousb.InEndpoint
}

// NewUSBPrinter opens the first device matching vendorID:productID and talks
// to it over bulk endpoint 1.
func NewUSBPrinter(vendorID, productID gousb.ID) (*Printer, error) {
	conn := &usbConn{ctx: gousb.NewContext()}

	dev, err := conn.ctx.OpenDeviceWithVIDPID(vendorID, productID)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open usb %s:%s: %w", vendorID, productID, err)
	}
	if dev == nil {
		conn.Close()
		return nil, fmt.Errorf("usb printer %s:%s not found", vendorID, productID)
	}
	conn.dev = dev

	if err := dev.SetAutoDetach(true); err != nil {
		conn.Close()
		return nil, fmt.Errorf("usb auto detach: %w", err)
	}
	if conn.cfg, err = dev.Config(1); err != nil {
		conn.Close()
		return nil, fmt.Errorf("usb config: %w", err)
	}
	if conn.intf, err = conn.cfg.Interface(0, 0); err != nil {
		conn.Close()
		return nil, fmt.Errorf("usb interface: %w", err)
	}
	if conn.out, err = conn.intf.OutEndpoint(0x01); err != nil {
		conn.Close()
		return nil, fmt.Errorf("usb out endpoint: %w", err)
	}
	if in, err := conn.intf.InEndpoint(0x01); err == nil {
		conn.in = in
	}

	p, err := NewPrinter(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return p, nil
}

func (u *usbConn) Read(p []byte) (int, error) {
	if u.in != nil {
		return u.in.Read(p)
	}
	return 0, fmt.Errorf("%w: usb read", ErrUnsupported)
}

func (u *usbConn) Write(p []byte) (int, error) {
	return u.out.Write(p)
}

func (u *usbConn) Close() error {
	if u.intf != nil {
		u.intf.Close()
	}
	if u.cfg != nil {
		u.cfg.Close()
	}
	if u.dev != nil {
		u.dev.Close()
	}
	if u.ctx != nil {
		u.ctx.Close()
	}
	return nil
}
