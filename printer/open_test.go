package printer

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/gousb"
)

func TestParseAddress(t *testing.T) {
	tests := []struct {
		in   string
		want Address
	}{
		{"10.23.22.96", Address{Scheme: "tcp", Host: "10.23.22.96:9100"}},
		{"10.23.22.96:9101", Address{Scheme: "tcp", Host: "10.23.22.96:9101"}},
		{"tcp://printer.local", Address{Scheme: "tcp", Host: "printer.local:9100"}},
		{"[::1]", Address{Scheme: "tcp", Host: "[::1]:9100"}},
		{"lpd://10.0.0.5", Address{Scheme: "lpd", Host: "10.0.0.5:515", Queue: "lp"}},
		{"lpd://10.0.0.5/raw", Address{Scheme: "lpd", Host: "10.0.0.5:515", Queue: "raw"}},
		{"serial:///dev/ttyUSB0?baud=115200", Address{Scheme: "serial", Port: "/dev/ttyUSB0", Baud: 115200}},
		{"serial://COM3", Address{Scheme: "serial", Port: "COM3", Baud: 9600}},
		{"usb://04b8:0x0202", Address{Scheme: "usb", Vendor: gousb.ID(0x04b8), Product: gousb.ID(0x0202)}},
		{"spooler://RP326 Receipt", Address{Scheme: "spooler", Name: "RP326 Receipt"}},
	}
	for _, tt := range tests {
		got, err := ParseAddress(tt.in)
		if err != nil {
			t.Errorf("ParseAddress(%q): %v", tt.in, err)
			continue
		}
		if d := cmp.Diff(tt.want, got); d != "" {
			t.Errorf("ParseAddress(%q) mismatch (-want +got):\n%s", tt.in, d)
		}
	}
}

func TestParseAddressErrors(t *testing.T) {
	for _, in := range []string{
		"",
		"tcp://",
		"serial://",
		"serial:///dev/ttyS0?baud=fast",
		"usb://04b8",
		"usb://zz:01",
		"spooler://",
	} {
		if _, err := ParseAddress(in); err == nil {
			t.Errorf("ParseAddress(%q): expected error", in)
		}
	}
	if _, err := ParseAddress("bluetooth://aa:bb"); !errors.Is(err, ErrUnsupported) {
		t.Errorf("unknown scheme error = %v, want ErrUnsupported", err)
	}
}
